package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/fotogen/internal/client/router"
)

// Generate renders a prompt with the active model. Without arguments the
// prompt is read from input, ending on an empty line.
func (a *App) Generate(ctx context.Context, args []string) error {
	route := a.nav.Current()
	if !router.IsHome(route) && !router.IsDeepLink(route) {
		a.println("Open the home page first ('home').")
		return nil
	}

	prompt := strings.Join(args, " ")
	if strings.TrimSpace(prompt) == "" {
		p, err := getMultiline(a.reader, "Describe the image to generate", a.out)
		if err != nil {
			return err
		}
		prompt = p
	}

	a.println("Generating...")
	rec, err := a.generationService.Generate(ctx, a.modelService.Active(), prompt)
	if err != nil {
		a.log.Warn(ctx, "generation failed", "error", err)
		a.notice(generationNotice(err))
		return err
	}

	a.notice(noticeGenerated(rec.OutputPath))
	return nil
}
