package driver

import (
	"errors"
	"io"
	"os"

	"github.com/jcgregorio/logger"
	"github.com/jcgregorio/slog"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/interpreter"
	"nano/interpreter-go/pkg/lexer"
	"nano/interpreter-go/pkg/parser"
	"nano/interpreter-go/pkg/runtime"
)

// DefaultEntry is the function a program starts from.
const DefaultEntry = "main"

// Compilation holds the result of lexing and parsing one source text.
type Compilation struct {
	Source      string
	Tokens      []lexer.Spanned
	Program     *ast.Program
	Diagnostics diag.List
}

// Options configures a run.
type Options struct {
	// Output receives print output; os.Stdout when nil.
	Output io.Writer
	// MaxCallDepth bounds nested calls; the interpreter default when zero.
	MaxCallDepth int
	// Log receives pipeline progress at debug level; discarded when nil.
	Log slog.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	Entry string
	Value runtime.Value
}

// Compile lexes and parses src. Lexical diagnostics precede syntax
// diagnostics.
func Compile(src string) *Compilation {
	tokens, diags := lexer.Lex(src)
	program, parseDiags := parser.Parse(tokens, lexer.EOFSpan(src))
	diags.Extend(parseDiags)
	return &Compilation{
		Source:      src,
		Tokens:      tokens,
		Program:     program,
		Diagnostics: diags,
	}
}

// OK reports whether the source compiled without diagnostics.
func (c *Compilation) OK() bool {
	return !c.Diagnostics.HasErrors()
}

// Run validates the entry function and evaluates it. Nothing is evaluated
// when the compilation has diagnostics; those are returned instead.
func (c *Compilation) Run(entry string, opts Options) (*Result, diag.List) {
	var log slog.Logger = logger.NewNopLogger()
	if opts.Log != nil {
		log = opts.Log
	}
	if entry == "" {
		entry = DefaultEntry
	}
	if !c.OK() {
		log.Debugf("skipping evaluation: %d diagnostics", len(c.Diagnostics))
		return nil, c.Diagnostics
	}

	fn, err := c.entryPoint(entry)
	if err != nil {
		return nil, diag.List{err}
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	interp := interpreter.New(c.Program,
		interpreter.WithOutput(out),
		interpreter.WithMaxCallDepth(opts.MaxCallDepth),
	)
	log.Debugf("evaluating '%s' (%d functions declared)", fn.Name, len(c.Program.Order))
	value, evalErr := interp.Call(fn.Name, nil)
	if evalErr != nil {
		log.Debugf("evaluation of '%s' failed: %v", fn.Name, evalErr)
		return nil, diag.List{asDiagnostic(evalErr, c.Program.Span)}
	}
	log.Debugf("'%s' returned %s", fn.Name, runtime.Format(value))
	return &Result{Entry: fn.Name, Value: value}, nil
}

func (c *Compilation) entryPoint(name string) (*ast.Func, *diag.Diagnostic) {
	fn, ok := c.Program.Lookup(name)
	if !ok {
		return nil, diag.New(diag.KindMissingEntryPoint, c.Program.Span,
			"programs need a '%s' function but none was found", name)
	}
	if len(fn.Params) > 0 {
		return nil, diag.New(diag.KindEntryPointHasArguments, fn.Span,
			"the '%s' function cannot have arguments", name)
	}
	return fn, nil
}

func asDiagnostic(err error, span ast.Span) *diag.Diagnostic {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return diag.New(diag.KindInternal, span, "%v", err)
}
