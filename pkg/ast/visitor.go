package ast

import "fmt"

// Visitor has one method per expression variant. Adding a variant to Expr
// means adding a method here, which stops every visitor from compiling until
// it handles the new case.
type Visitor[R any] interface {
	VisitError(*ErrorExpr) (R, error)
	VisitLiteral(*Literal) (R, error)
	VisitList(*ListExpr) (R, error)
	VisitLocal(*Local) (R, error)
	VisitLet(*Let) (R, error)
	VisitThen(*Then) (R, error)
	VisitBinary(*Binary) (R, error)
	VisitCall(*Call) (R, error)
	VisitIf(*If) (R, error)
	VisitPrint(*Print) (R, error)
}

// Dispatch routes expr to the matching visitor method.
func Dispatch[R any](expr Expr, v Visitor[R]) (R, error) {
	switch n := expr.(type) {
	case *ErrorExpr:
		return v.VisitError(n)
	case *Literal:
		return v.VisitLiteral(n)
	case *ListExpr:
		return v.VisitList(n)
	case *Local:
		return v.VisitLocal(n)
	case *Let:
		return v.VisitLet(n)
	case *Then:
		return v.VisitThen(n)
	case *Binary:
		return v.VisitBinary(n)
	case *Call:
		return v.VisitCall(n)
	case *If:
		return v.VisitIf(n)
	case *Print:
		return v.VisitPrint(n)
	}
	// Expr is sealed by an unexported method, so only a nil expression can
	// reach this point.
	var zero R
	return zero, fmt.Errorf("ast: cannot dispatch %T", expr)
}

// ContainsError reports whether expr or any descendant is an ErrorExpr.
func ContainsError(expr Expr) bool {
	found, _ := Dispatch[bool](expr, errorFinder{})
	return found
}

type errorFinder struct{}

func (f errorFinder) any(exprs ...Expr) (bool, error) {
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if ok, _ := Dispatch[bool](e, f); ok {
			return true, nil
		}
	}
	return false, nil
}

func (f errorFinder) VisitError(*ErrorExpr) (bool, error) { return true, nil }
func (f errorFinder) VisitLiteral(*Literal) (bool, error) { return false, nil }
func (f errorFinder) VisitList(n *ListExpr) (bool, error) { return f.any(n.Items...) }
func (f errorFinder) VisitLocal(*Local) (bool, error)     { return false, nil }
func (f errorFinder) VisitLet(n *Let) (bool, error)       { return f.any(n.Value, n.Body) }
func (f errorFinder) VisitThen(n *Then) (bool, error)     { return f.any(n.First, n.Second) }
func (f errorFinder) VisitBinary(n *Binary) (bool, error) { return f.any(n.Left, n.Right) }
func (f errorFinder) VisitIf(n *If) (bool, error)         { return f.any(n.Condition, n.Then, n.Else) }
func (f errorFinder) VisitPrint(n *Print) (bool, error)   { return f.any(n.Expr) }
func (f errorFinder) VisitCall(n *Call) (bool, error) {
	return f.any(append([]Expr{n.Callee}, n.Arguments...)...)
}
