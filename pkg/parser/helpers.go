package parser

import (
	"fmt"

	"nano/interpreter-go/pkg/lexer"
)

// eofKind tags the sentinel returned by peek at the end of input.
const eofKind lexer.Kind = -1

func (p *parser) atEnd() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() lexer.Spanned {
	if p.atEnd() {
		return lexer.Spanned{Token: lexer.Token{Kind: eofKind}, Span: p.eof}
	}
	return p.toks[p.pos]
}

// previous returns the last consumed token, or the EOF sentinel when nothing
// has been consumed.
func (p *parser) previous() lexer.Spanned {
	if p.pos == 0 || p.pos > len(p.toks) {
		return lexer.Spanned{Token: lexer.Token{Kind: eofKind}, Span: p.eof}
	}
	return p.toks[p.pos-1]
}

func (p *parser) advance() lexer.Spanned {
	tok := p.peek()
	if !p.atEnd() {
		p.pos++
	}
	return tok
}

func (p *parser) check(kind lexer.Kind) bool {
	return !p.atEnd() && p.toks[p.pos].Token.Kind == kind
}

func (p *parser) checkCtrl(c byte) bool {
	return !p.atEnd() && p.toks[p.pos].Token.Is(c)
}

func (p *parser) eatCtrl(c byte) bool {
	if p.checkCtrl(c) {
		p.pos++
		return true
	}
	return false
}

// checkOp reports whether the next token is an operator in ops.
func (p *parser) checkOp(ops ...string) bool {
	if p.atEnd() {
		return false
	}
	tok := p.toks[p.pos].Token
	if tok.Kind != lexer.Op {
		return false
	}
	for _, op := range ops {
		if tok.Text == op {
			return true
		}
	}
	return false
}

// describe renders the next token for use in "found ..." messages.
func (p *parser) describe() string {
	if p.atEnd() {
		return "end of input"
	}
	return fmt.Sprintf("'%s'", p.peek().Token)
}

// startsExpression reports whether the next token can begin an expression.
func (p *parser) startsExpression() bool {
	if p.atEnd() {
		return false
	}
	tok := p.peek().Token
	switch tok.Kind {
	case lexer.Null, lexer.Bool, lexer.Num, lexer.Str, lexer.Ident, lexer.Print, lexer.If, lexer.Let:
		return true
	case lexer.Ctrl:
		return tok.Ctrl == '(' || tok.Ctrl == '[' || tok.Ctrl == '{'
	case lexer.Op:
		return tok.Text == "-"
	}
	return false
}

// atBoundary reports whether the next token ends the enclosing construct:
// a separator, a closing delimiter, a function declaration or end of input.
func (p *parser) atBoundary() bool {
	if p.atEnd() || p.check(lexer.Fn) {
		return true
	}
	tok := p.peek().Token
	if tok.Kind != lexer.Ctrl {
		return false
	}
	switch tok.Ctrl {
	case ';', ',', ')', ']', '}':
		return true
	}
	return false
}
