package lexer

import (
	"fmt"
	"strconv"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/runtime"
)

// Kind is the token category.
type Kind int

const (
	Null Kind = iota
	Bool
	Num
	Str
	Op
	Ctrl
	Ident
	Fn
	Let
	Print
	If
	Else
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Num:
		return "number"
	case Str:
		return "string"
	case Op:
		return "operator"
	case Ctrl:
		return "control"
	case Ident:
		return "identifier"
	case Fn:
		return "fn"
	case Let:
		return "let"
	case Print:
		return "print"
	case If:
		return "if"
	case Else:
		return "else"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

var keywords = map[string]Kind{
	"fn":    Fn,
	"let":   Let,
	"print": Print,
	"if":    If,
	"else":  Else,
	"true":  Bool,
	"false": Bool,
	"null":  Null,
}

// Token is one lexeme. Text is a slice of the source: the full literal for
// numbers, the contents without quotes for strings, and the word or symbol
// otherwise.
type Token struct {
	Kind Kind
	Text string
	Num  float64
	Bool bool
	Ctrl byte
}

// String renders the token's display form, used in syntax messages.
func (t Token) String() string {
	switch t.Kind {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(t.Bool)
	case Num:
		return runtime.FormatNumber(t.Num)
	case Str:
		return strconv.Quote(t.Text)
	case Ctrl:
		return string(t.Ctrl)
	case Op, Ident:
		return t.Text
	default:
		return t.Kind.String()
	}
}

// Is reports whether t is the control character c.
func (t Token) Is(c byte) bool {
	return t.Kind == Ctrl && t.Ctrl == c
}

// IsOp reports whether t is the operator text op.
func (t Token) IsOp(op string) bool {
	return t.Kind == Op && t.Text == op
}

// Spanned pairs a token with its source span.
type Spanned struct {
	Token Token
	Span  ast.Span
}

func (s Spanned) String() string {
	return fmt.Sprintf("%s@%s", s.Token, s.Span)
}
