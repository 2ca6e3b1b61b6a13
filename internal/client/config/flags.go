package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/fotogen/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   backend API root
//	-t int      request timeout in seconds
//	-m int      max training selection size in MB
//	-l string   log level (debug, info, warn, error)
//	-d string   state directory
//	-o string   output directory for generated images
//	-s string   sign-in mode (interactive, device)
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and any
// other component's flags are ignored here.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-m", "-l", "-d", "-o", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIRoot, "a", cfg.APIRoot, "backend API root")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	maxMB := fs.Int64("m", cfg.MaxBatchBytes/bytesPerMB, "max training selection size (in MB)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.StateDir, "d", cfg.StateDir, "state directory")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory for generated images")
	fs.StringVar(&cfg.SignInMode, "s", cfg.SignInMode, "sign-in mode (interactive or device)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		case "m":
			cfg.MaxBatchBytes = *maxMB * bytesPerMB
		}
	})
}
