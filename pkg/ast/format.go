package ast

import (
	"sort"
	"strconv"
	"strings"

	"nano/interpreter-go/pkg/runtime"
)

// Format renders expr as a compact s-expression, e.g.
// (let x 2 (if (== x 2) (print (+ x 3)) (print 0))).
func Format(expr Expr) string {
	if expr == nil {
		return "<nil>"
	}
	out, err := Dispatch[string](expr, printer{})
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return out
}

// FormatProgram renders every function, one per line, in declaration order.
func FormatProgram(p *Program) string {
	if p == nil {
		return ""
	}
	names := p.Order
	if len(names) != len(p.Funcs) {
		names = make([]string, 0, len(p.Funcs))
		for name := range p.Funcs {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	var b strings.Builder
	for _, name := range names {
		fn := p.Funcs[name]
		b.WriteString("(fn ")
		b.WriteString(fn.Name)
		b.WriteString(" (")
		b.WriteString(strings.Join(fn.Params, " "))
		b.WriteString(") ")
		b.WriteString(Format(fn.Body))
		b.WriteString(")\n")
	}
	return b.String()
}

type printer struct{}

func (p printer) list(head string, exprs ...Expr) (string, error) {
	parts := make([]string, 0, len(exprs)+1)
	parts = append(parts, head)
	for _, e := range exprs {
		parts = append(parts, Format(e))
	}
	return "(" + strings.Join(parts, " ") + ")", nil
}

func (p printer) VisitError(*ErrorExpr) (string, error) {
	return "<error>", nil
}

func (p printer) VisitLiteral(n *Literal) (string, error) {
	if s, ok := n.Value.(runtime.StringValue); ok {
		return strconv.Quote(s.Val), nil
	}
	return runtime.Format(n.Value), nil
}

func (p printer) VisitList(n *ListExpr) (string, error) {
	return p.list("list", n.Items...)
}

func (p printer) VisitLocal(n *Local) (string, error) {
	return n.Name, nil
}

func (p printer) VisitLet(n *Let) (string, error) {
	return p.list("let "+n.Name, n.Value, n.Body)
}

func (p printer) VisitThen(n *Then) (string, error) {
	return p.list("then", n.First, n.Second)
}

func (p printer) VisitBinary(n *Binary) (string, error) {
	return p.list(n.Operator.String(), n.Left, n.Right)
}

func (p printer) VisitCall(n *Call) (string, error) {
	return p.list("call", append([]Expr{n.Callee}, n.Arguments...)...)
}

func (p printer) VisitIf(n *If) (string, error) {
	return p.list("if", n.Condition, n.Then, n.Else)
}

func (p printer) VisitPrint(n *Print) (string, error) {
	return p.list("print", n.Expr)
}
