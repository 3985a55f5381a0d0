package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/driver"
	"nano/interpreter-go/pkg/runtime"
)

// programConfig is a loaded source together with its run settings.
type programConfig struct {
	source   *driver.Source
	entry    string
	maxDepth int
}

// load reads the program named on the command line, or the main file of the
// nearest package.yml when no file is given. Flags override the manifest.
func (env *cliEnv) load(ctx *cli.Context) (*programConfig, error) {
	if ctx.NArg() > 1 {
		return nil, fmt.Errorf("expected at most one source file, found %d arguments", ctx.NArg())
	}
	cfg := &programConfig{entry: driver.DefaultEntry}
	rev := ctx.String(revFlagName)

	if path := ctx.Args().First(); path != "" {
		src, err := loadSource(path, rev)
		if err != nil {
			return nil, err
		}
		cfg.source = src
	} else {
		manifestPath, err := driver.FindManifest(".")
		if err != nil {
			if errors.Is(err, driver.ErrManifestNotFound) {
				return nil, fmt.Errorf("no source file given and %w", err)
			}
			return nil, err
		}
		manifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return nil, err
		}
		env.log.Debugf("using manifest %s (package %s)", manifest.Path, manifest.Name)
		cfg.entry = manifest.Entry
		cfg.maxDepth = manifest.MaxCallDepth
		if rev != "" {
			cfg.source, err = driver.LoadRevision(manifest.MainPath(), rev)
		} else {
			cfg.source, err = driver.LoadManifestSource(manifest)
		}
		if err != nil {
			return nil, err
		}
	}

	if ctx.IsSet(entryFlagName) {
		cfg.entry = ctx.String(entryFlagName)
	}
	if ctx.IsSet(maxDepthFlagName) {
		cfg.maxDepth = ctx.Int(maxDepthFlagName)
	}
	env.log.Debugf("loaded %s (%d bytes)", cfg.source.Name(), len(cfg.source.Text))
	return cfg, nil
}

func loadSource(path, rev string) (*driver.Source, error) {
	if rev != "" {
		return driver.LoadRevision(path, rev)
	}
	return driver.LoadFile(path)
}

func (env *cliEnv) compile(cfg *programConfig) *driver.Compilation {
	comp := driver.Compile(cfg.source.Text)
	env.log.Debugf("compiled %s: %d tokens, %d functions, %d diagnostics",
		cfg.source.Name(), len(comp.Tokens), len(comp.Program.Order), len(comp.Diagnostics))
	return comp
}

// report renders diagnostics to stderr. The returned error wraps the
// diagnostics together with errFatal or errReported.
func (env *cliEnv) report(src *driver.Source, diags diag.List) error {
	n := newRenderer(env.stderr, src.Name(), src.Text).RenderAll(diags)
	summary := fmt.Sprintf("%d errors", n)
	if n == 1 {
		summary = "1 error"
	}
	sentinel := errReported
	if diags.HasFatal() {
		sentinel = errFatal
		summary += " (fatal)"
	}
	fmt.Fprintln(env.stderr, summary)
	err := diags.Err()
	env.log.Debugf("%s: %v", src.Name(), err)
	return fmt.Errorf("%w: %w", sentinel, err)
}

func (env *cliEnv) runAction(ctx *cli.Context) error {
	cfg, err := env.load(ctx)
	if err != nil {
		return err
	}
	comp := env.compile(cfg)
	result, diags := comp.Run(cfg.entry, driver.Options{
		Output:       env.stdout,
		MaxCallDepth: cfg.maxDepth,
		Log:          env.log,
	})
	if diags.HasErrors() {
		return env.report(cfg.source, diags)
	}
	if ctx.Bool(printResultFlagName) {
		fmt.Fprintf(env.stdout, "Return value: %s\n", runtime.Format(result.Value))
	}
	return nil
}

func (env *cliEnv) checkAction(ctx *cli.Context) error {
	cfg, err := env.load(ctx)
	if err != nil {
		return err
	}
	comp := env.compile(cfg)
	if !comp.OK() {
		return env.report(cfg.source, comp.Diagnostics)
	}
	fmt.Fprintf(env.stdout, "%s: ok (%d functions)\n", cfg.source.Name(), len(comp.Program.Order))
	return nil
}

func (env *cliEnv) tokensAction(ctx *cli.Context) error {
	cfg, err := env.load(ctx)
	if err != nil {
		return err
	}
	comp := env.compile(cfg)
	for _, tok := range comp.Tokens {
		fmt.Fprintf(env.stdout, "%-10s %-10s %s\n", tok.Span, tok.Token.Kind, tok.Token)
	}
	if !comp.OK() {
		return env.report(cfg.source, comp.Diagnostics)
	}
	return nil
}

func (env *cliEnv) astAction(ctx *cli.Context) error {
	cfg, err := env.load(ctx)
	if err != nil {
		return err
	}
	comp := env.compile(cfg)
	fmt.Fprint(env.stdout, ast.FormatProgram(comp.Program))
	if !comp.OK() {
		return env.report(cfg.source, comp.Diagnostics)
	}
	return nil
}
