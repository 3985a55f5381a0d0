package interpreter

import (
	"errors"
	"fmt"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/runtime"
)

// maxCallNotes caps the "called from here" notes attached to one diagnostic.
const maxCallNotes = 8

// invoke runs fn's body on a fresh frame holding only its arguments.
func (i *Interpreter) invoke(fn *ast.Func, args []runtime.Value, site ast.Span) (runtime.Value, error) {
	if i.depth >= i.maxDepth {
		return nil, diag.New(diag.KindStackOverflow, site,
			"maximum call depth of %d exceeded calling '%s'", i.maxDepth, fn.Name)
	}
	i.depth++
	defer func() { i.depth-- }()

	frame := runtime.NewFrame(fn.Params, args)
	return ast.Dispatch[runtime.Value](fn.Body, evaluator{interp: i, stack: frame})
}

func (e evaluator) VisitCall(n *ast.Call) (runtime.Value, error) {
	callee, err := e.eval(n.Callee)
	if err != nil {
		return nil, err
	}
	ref, ok := callee.(runtime.FuncValue)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, n.Callee.Span(), "'%s' is not callable", runtime.Format(callee))
	}
	fn, ok := e.interp.program.Lookup(ref.Name)
	if !ok {
		return nil, diag.New(diag.KindInternal, n.Callee.Span(), "function '%s' is not declared", ref.Name)
	}
	if len(n.Arguments) != len(fn.Params) {
		return nil, arityMismatch(fn, len(n.Arguments), n.Span())
	}

	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, arg := range n.Arguments {
		val, err := e.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	result, err := e.interp.invoke(fn, args, n.Span())
	if err != nil {
		return nil, withCallSite(err, fn.Name, n.Span())
	}
	return result, nil
}

func arityMismatch(fn *ast.Func, found int, span ast.Span) *diag.Diagnostic {
	return diag.New(diag.KindArityMismatch, span,
		"'%s' called with wrong number of arguments (expected %d, found %d)", fn.Name, len(fn.Params), found).
		WithNote(fn.NameSpan, fmt.Sprintf("'%s' declared here", fn.Name))
}

// withCallSite notes where a failing call was made. Notes accumulate from the
// innermost call outward up to maxCallNotes.
func withCallSite(err error, name string, site ast.Span) error {
	var d *diag.Diagnostic
	if !errors.As(err, &d) || len(d.Notes) >= maxCallNotes {
		return err
	}
	d.WithNote(site, fmt.Sprintf("'%s' called from here", name))
	return err
}
