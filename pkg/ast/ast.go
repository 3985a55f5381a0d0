package ast

import (
	"fmt"

	"nano/interpreter-go/pkg/runtime"
)

type NodeType string

const (
	NodeError   NodeType = "Error"
	NodeLiteral NodeType = "Literal"
	NodeList    NodeType = "List"
	NodeLocal   NodeType = "Local"
	NodeLet     NodeType = "Let"
	NodeThen    NodeType = "Then"
	NodeBinary  NodeType = "Binary"
	NodeCall    NodeType = "Call"
	NodeIf      NodeType = "If"
	NodePrint   NodeType = "Print"
)

// Expr is a node of the expression tree. The set of implementations is
// closed; see Visitor.
type Expr interface {
	NodeType() NodeType
	Span() Span
	exprNode()
}

type nodeImpl struct {
	Type NodeType
	Loc  Span
}

func newNodeImpl(kind NodeType, span Span) nodeImpl {
	return nodeImpl{Type: kind, Loc: span}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.Loc }
func (nodeImpl) exprNode()            {}

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpNotEq
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

// IsArithmetic reports whether the operator requires numeric operands.
func (op BinaryOp) IsArithmetic() bool {
	return op == OpAdd || op == OpSub || op == OpMul || op == OpDiv
}

// ErrorExpr marks a region the parser could not understand. A tree that
// contains one is never evaluated.
type ErrorExpr struct {
	nodeImpl
}

func NewError(span Span) *ErrorExpr {
	return &ErrorExpr{nodeImpl: newNodeImpl(NodeError, span)}
}

// Literal is a constant value.
type Literal struct {
	nodeImpl

	Value runtime.Value
}

func NewLiteral(value runtime.Value, span Span) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, span), Value: value}
}

type ListExpr struct {
	nodeImpl

	Items []Expr
}

func NewList(items []Expr, span Span) *ListExpr {
	return &ListExpr{nodeImpl: newNodeImpl(NodeList, span), Items: items}
}

// Local references a variable or, failing that, a declared function.
type Local struct {
	nodeImpl

	Name string
}

func NewLocal(name string, span Span) *Local {
	return &Local{nodeImpl: newNodeImpl(NodeLocal, span), Name: name}
}

// Let binds Name to Value for the duration of Body only.
type Let struct {
	nodeImpl

	Name     string
	NameSpan Span
	Value    Expr
	Body     Expr
}

func NewLet(name string, nameSpan Span, value, body Expr, span Span) *Let {
	return &Let{nodeImpl: newNodeImpl(NodeLet, span), Name: name, NameSpan: nameSpan, Value: value, Body: body}
}

// Then evaluates First for effect and yields Second.
type Then struct {
	nodeImpl

	First  Expr
	Second Expr
}

func NewThen(first, second Expr, span Span) *Then {
	return &Then{nodeImpl: newNodeImpl(NodeThen, span), First: first, Second: second}
}

type Binary struct {
	nodeImpl

	Left     Expr
	Operator BinaryOp
	Right    Expr
}

func NewBinary(left Expr, op BinaryOp, right Expr, span Span) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, span), Left: left, Operator: op, Right: right}
}

type Call struct {
	nodeImpl

	Callee    Expr
	Arguments []Expr
}

func NewCall(callee Expr, args []Expr, span Span) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall, span), Callee: callee, Arguments: args}
}

// If requires both branches; only the chosen one is evaluated.
type If struct {
	nodeImpl

	Condition Expr
	Then      Expr
	Else      Expr
}

func NewIf(cond, then, els Expr, span Span) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf, span), Condition: cond, Then: then, Else: els}
}

type Print struct {
	nodeImpl

	Expr Expr
}

func NewPrint(expr Expr, span Span) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint, span), Expr: expr}
}

// Func is a named function definition.
type Func struct {
	Name     string
	NameSpan Span
	Params   []string
	Span     Span
	Body     Expr
}

// Program is the immutable function table built by the parser.
type Program struct {
	Funcs map[string]*Func
	// Order lists function names in declaration order.
	Order []string
	Span  Span
}

// NewProgram returns an empty program covering span.
func NewProgram(span Span) *Program {
	return &Program{Funcs: make(map[string]*Func), Span: span}
}

// Lookup returns the function declared under name.
func (p *Program) Lookup(name string) (*Func, bool) {
	if p == nil {
		return nil, false
	}
	fn, ok := p.Funcs[name]
	return fn, ok
}

// Declare adds fn unless the name is already taken. It reports whether the
// declaration was accepted.
func (p *Program) Declare(fn *Func) bool {
	if _, exists := p.Funcs[fn.Name]; exists {
		return false
	}
	p.Funcs[fn.Name] = fn
	p.Order = append(p.Order, fn.Name)
	return true
}
