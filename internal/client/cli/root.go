package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	s := ""
	if id, err := a.authService.Current(context.Background()); err == nil && id != nil {
		s = id.DisplayName() + " "
	}
	s += a.nav.Current()
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root settles the landing route and runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to FotoGen CLI (type 'help' for commands)")

	_ = a.Settle(ctx)

	runREPL(ctx, a, a.getStatus, a.reader, stdinIsTerminal())
}
