package interpreter

import (
	"io"
	"os"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth is the call depth at which evaluation stops with a
// stack-overflow diagnostic.
const DefaultMaxCallDepth = 10000

// Interpreter evaluates function bodies against a parsed program. It is not
// safe for concurrent use; create one per evaluation.
type Interpreter struct {
	program  *ast.Program
	out      io.Writer
	maxDepth int
	depth    int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the sink that print writes to.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) {
		if w != nil {
			i.out = w
		}
	}
}

// WithMaxCallDepth bounds nested calls. Values below one keep the default.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = n
		}
	}
}

// New returns an interpreter over program.
func New(program *ast.Program, opts ...Option) *Interpreter {
	i := &Interpreter{
		program:  program,
		out:      os.Stdout,
		maxDepth: DefaultMaxCallDepth,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Eval evaluates expr against stack. A nil stack is treated as empty.
// Failures are *diag.Diagnostic values.
func (i *Interpreter) Eval(expr ast.Expr, stack *runtime.Stack) (runtime.Value, error) {
	if stack == nil {
		stack = runtime.NewStack()
	}
	return ast.Dispatch[runtime.Value](expr, evaluator{interp: i, stack: stack})
}

// Call invokes the declared function name with host-supplied arguments.
func (i *Interpreter) Call(name string, args []runtime.Value) (runtime.Value, error) {
	fn, ok := i.program.Lookup(name)
	if !ok {
		return nil, diag.New(diag.KindInternal, i.programSpan(), "function '%s' is not declared", name)
	}
	if len(args) != len(fn.Params) {
		return nil, arityMismatch(fn, len(args), fn.NameSpan)
	}
	return i.invoke(fn, args, fn.NameSpan)
}

func (i *Interpreter) programSpan() ast.Span {
	if i.program == nil {
		return ast.ZeroSpan()
	}
	return i.program.Span
}
