// Command nano runs and inspects nano programs.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/jcgregorio/logger"
	"github.com/jcgregorio/slog"
	"github.com/urfave/cli/v2"
)

const cliToolVersion = "nano 0.1.0-dev"

// Flag names.
const (
	verboseFlagName     = "verbose"
	noColorFlagName     = "no-color"
	entryFlagName       = "entry"
	revFlagName         = "rev"
	maxDepthFlagName    = "max-depth"
	printResultFlagName = "print-result"
)

// Exit statuses.
const (
	exitOK    = 0
	exitError = 1
	// exitFatal marks a host-level failure such as call depth exhaustion.
	exitFatal = 2
)

// errReported and errFatal signal that diagnostics were already printed.
var (
	errReported = errors.New("diagnostics reported")
	errFatal    = errors.New("fatal diagnostic reported")
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	env := &cliEnv{stdout: stdout, stderr: stderr, log: logger.NewNopLogger()}
	err := env.app().Run(args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errFatal):
		return exitFatal
	case errors.Is(err, errReported):
		return exitError
	default:
		fmt.Fprintf(stderr, "nano: %v\n", err)
		return exitError
	}
}

// cliEnv carries the writers and logger shared by every command.
type cliEnv struct {
	stdout io.Writer
	stderr io.Writer
	log    slog.Logger
}

func revFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  revFlagName,
		Usage: "read the source file as committed at this git revision",
	}
}

func (env *cliEnv) app() *cli.App {
	return &cli.App{
		Name:      "nano",
		Usage:     "run and inspect nano programs",
		Version:   cliToolVersion,
		Writer:    env.stdout,
		ErrWriter: env.stderr,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: verboseFlagName, Usage: "log pipeline stages to stderr"},
			&cli.BoolFlag{Name: noColorFlagName, Usage: "disable colored diagnostics"},
		},
		Before: func(ctx *cli.Context) error {
			if ctx.Bool(noColorFlagName) {
				color.NoColor = true
			}
			env.log = logger.NewFromOptions(&logger.Options{
				SyncWriter:   asSyncWriter(env.stderr),
				IncludeDebug: ctx.Bool(verboseFlagName),
			})
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "evaluate a program's entry function",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: entryFlagName, Usage: "entry function `NAME` (default from package.yml, else main)"},
					revFlag(),
					&cli.IntFlag{Name: maxDepthFlagName, Usage: "maximum call depth (0 keeps the default)"},
					&cli.BoolFlag{Name: printResultFlagName, Usage: "print the entry function's return value"},
				},
				Action: env.runAction,
			},
			{
				Name:      "check",
				Usage:     "report lexical and syntax errors without evaluating",
				ArgsUsage: "[file]",
				Flags:     []cli.Flag{revFlag()},
				Action:    env.checkAction,
			},
			{
				Name:      "tokens",
				Usage:     "print the token stream",
				ArgsUsage: "[file]",
				Flags:     []cli.Flag{revFlag()},
				Action:    env.tokensAction,
			},
			{
				Name:      "ast",
				Usage:     "print the parsed function table",
				ArgsUsage: "[file]",
				Flags:     []cli.Flag{revFlag()},
				Action:    env.astAction,
			},
		},
	}
}

// asSyncWriter adapts w for the logger, which flushes after each entry.
func asSyncWriter(w io.Writer) logger.SyncWriter {
	if sw, ok := w.(logger.SyncWriter); ok {
		return sw
	}
	return nopSync{w}
}

type nopSync struct {
	io.Writer
}

func (nopSync) Sync() error { return nil }
