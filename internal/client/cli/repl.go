package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Settle(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Open(ctx context.Context, args []string) error
	Home(ctx context.Context) error
	Model(ctx context.Context) error
	Mine(ctx context.Context) error
	Generate(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Train(ctx context.Context) error
	History(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: login, open <path>, help, exit"
	helpSignedIn  = "Available commands: whoami, home, open <path>, model, mine, generate <prompt>, select <images...>, train, history [n|clear], logout, help, exit"
)

// runREPL starts a simple read–eval–print loop for the FotoGen CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. After every command the navigation is
// settled so a command that changed the route mounts its page. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) when interactive is
// set and accepts commands:
//
//	Not logged in:
//	  - help                - show available commands
//	  - login               - sign in with the identity provider
//	  - open <path>         - go to a page, e.g. a shared model link
//	  - exit | quit         - leave the program
//
//	Logged in:
//	  - whoami              - show the signed-in identity
//	  - home                - show the home page and resolve the model
//	  - open <path>         - go to /home, /training or /home/<user>/<model>
//	  - model               - show the active model
//	  - mine                - switch back to your own model
//	  - generate <prompt>   - generate an image with the active model
//	  - select <images...>  - pick training images (globs allowed)
//	  - train               - upload the selection and start training
//	  - history [n|clear]   - recent trainings and generations
//	  - logout              - sign out
//	  - exit | quit         - leave the program
//
// Any errors returned by command handlers are ignored here; handlers
// report their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, interactive bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if interactive {
			printlnFn(fmt.Sprintf("fotogen %s> ", statusFn()))
		}

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "open":
			_ = a.Open(ctx, args)

		case "home":
			_ = a.Home(ctx)

		case "model":
			_ = a.Model(ctx)

		case "mine":
			_ = a.Mine(ctx)

		case "generate", "gen":
			_ = a.Generate(ctx, args)

		case "select":
			_ = a.Select(ctx, args)

		case "train":
			_ = a.Train(ctx)

		case "history":
			_ = a.History(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		_ = a.Settle(ctx)
	}
}
