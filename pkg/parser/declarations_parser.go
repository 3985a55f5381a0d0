package parser

import (
	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/lexer"
)

// parseFunction parses `fn NAME ( params ) { body }` and declares it. On a
// malformed header the rest of the declaration is skipped.
func (p *parser) parseFunction() {
	fnTok := p.advance()

	if !p.check(lexer.Ident) {
		p.report(p.peek().Span, "expected function name, found %s", p.describe())
		p.skipToFunction()
		return
	}
	nameTok := p.advance()

	params, ok := p.parseParams()
	if !ok {
		p.skipToFunction()
		return
	}

	if !p.checkCtrl('{') {
		p.report(p.peek().Span, "expected '{' to start the body of '%s', found %s", nameTok.Token.Text, p.describe())
		p.skipToFunction()
		return
	}
	body := p.parseBlock()
	fn := &ast.Func{
		Name:     nameTok.Token.Text,
		NameSpan: nameTok.Span,
		Params:   params,
		Span:     fnTok.Span.Union(p.previous().Span),
		Body:     body,
	}
	if prior, exists := p.program.Lookup(fn.Name); exists {
		p.diags.Add(duplicateFunction(fn, prior))
		return
	}
	p.program.Declare(fn)
}

// parseParams parses a parenthesised, comma-separated identifier list.
// Trailing commas are accepted.
func (p *parser) parseParams() ([]string, bool) {
	if !p.checkCtrl('(') {
		p.report(p.peek().Span, "expected '(' after function name, found %s", p.describe())
		return nil, false
	}
	open := p.advance()

	var params []string
	for !p.checkCtrl(')') {
		if !p.check(lexer.Ident) {
			p.report(p.peek().Span, "expected parameter name, found %s", p.describe())
			break
		}
		params = append(params, p.advance().Token.Text)
		if !p.eatCtrl(',') {
			break
		}
	}
	p.expectClose(open, ')')
	return params, true
}
