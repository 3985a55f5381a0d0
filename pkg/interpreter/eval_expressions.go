package interpreter

import (
	"fmt"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/runtime"
)

// evaluator walks expressions for one call frame.
type evaluator struct {
	interp *Interpreter
	stack  *runtime.Stack
}

var _ ast.Visitor[runtime.Value] = evaluator{}

func (e evaluator) eval(expr ast.Expr) (runtime.Value, error) {
	return ast.Dispatch[runtime.Value](expr, e)
}

func (e evaluator) VisitError(n *ast.ErrorExpr) (runtime.Value, error) {
	return nil, diag.New(diag.KindInternal, n.Span(), "cannot evaluate a malformed expression")
}

func (e evaluator) VisitLiteral(n *ast.Literal) (runtime.Value, error) {
	return n.Value, nil
}

func (e evaluator) VisitList(n *ast.ListExpr) (runtime.Value, error) {
	elems := make([]runtime.Value, 0, len(n.Items))
	for _, item := range n.Items {
		val, err := e.eval(item)
		if err != nil {
			return nil, err
		}
		elems = append(elems, val)
	}
	return runtime.ListValue{Elements: elems}, nil
}

func (e evaluator) VisitLocal(n *ast.Local) (runtime.Value, error) {
	if val, ok := e.stack.Lookup(n.Name); ok {
		return val, nil
	}
	if _, ok := e.interp.program.Lookup(n.Name); ok {
		return runtime.Func(n.Name), nil
	}
	return nil, diag.New(diag.KindUnboundVariable, n.Span(), "no such variable '%s' in scope", n.Name)
}

func (e evaluator) VisitLet(n *ast.Let) (runtime.Value, error) {
	val, err := e.eval(n.Value)
	if err != nil {
		return nil, err
	}
	release := e.stack.Push(n.Name, val)
	defer release()
	return e.eval(n.Body)
}

func (e evaluator) VisitThen(n *ast.Then) (runtime.Value, error) {
	if _, err := e.eval(n.First); err != nil {
		return nil, err
	}
	return e.eval(n.Second)
}

func (e evaluator) VisitIf(n *ast.If) (runtime.Value, error) {
	cond, err := e.eval(n.Condition)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(runtime.BoolValue)
	if !ok {
		return nil, diag.New(diag.KindTypeMismatch, n.Condition.Span(),
			"conditions must be booleans, found '%s'", runtime.Format(cond))
	}
	if b.Val {
		return e.eval(n.Then)
	}
	return e.eval(n.Else)
}

func (e evaluator) VisitPrint(n *ast.Print) (runtime.Value, error) {
	val, err := e.eval(n.Expr)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintln(e.interp.out, runtime.Format(val)); err != nil {
		return nil, diag.New(diag.KindOutput, n.Span(), "cannot write output: %v", err)
	}
	return val, nil
}
