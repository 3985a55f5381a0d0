package interpreter

import (
	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/runtime"
)

func (e evaluator) VisitBinary(n *ast.Binary) (runtime.Value, error) {
	if !n.Operator.IsArithmetic() {
		left, err := e.eval(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.eval(n.Right)
		if err != nil {
			return nil, err
		}
		equal := runtime.Equal(left, right)
		if n.Operator == ast.OpNotEq {
			equal = !equal
		}
		return runtime.Bool(equal), nil
	}

	left, err := e.number(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.number(n.Right)
	if err != nil {
		return nil, err
	}
	return runtime.Num(applyArithmetic(n.Operator, left, right)), nil
}

// number evaluates expr and requires a number.
func (e evaluator) number(expr ast.Expr) (float64, error) {
	val, err := e.eval(expr)
	if err != nil {
		return 0, err
	}
	num, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, diag.New(diag.KindTypeMismatch, expr.Span(), "'%s' is not a number", runtime.Format(val))
	}
	return num.Val, nil
}

// applyArithmetic follows IEEE 754; division by zero yields an infinity or NaN.
func applyArithmetic(op ast.BinaryOp, left, right float64) float64 {
	switch op {
	case ast.OpAdd:
		return left + right
	case ast.OpSub:
		return left - right
	case ast.OpMul:
		return left * right
	default:
		return left / right
	}
}
