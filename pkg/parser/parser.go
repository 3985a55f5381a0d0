// Package parser builds the function table from a token stream.
//
// The parser is hand-written recursive descent. It never gives up on the
// first problem: a malformed construct is replaced with an ast.ErrorExpr, a
// diagnostic is recorded, and parsing resumes at the next statement boundary
// so one pass reports as many independent syntax errors as possible.
package parser

import (
	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/lexer"
)

// maxNesting bounds how deeply expressions may nest.
const maxNesting = 256

type parser struct {
	toks    []lexer.Spanned
	pos     int
	eof     ast.Span
	diags   diag.List
	program *ast.Program

	depth int
	// lastErr is the token index of the most recent diagnostic; a second
	// diagnostic at the same index is suppressed.
	lastErr int
}

func newParser(tokens []lexer.Spanned, eof ast.Span) *parser {
	return &parser{
		toks:    tokens,
		eof:     eof,
		program: ast.NewProgram(ast.NewSpan(0, eof.End)),
		lastErr: -1,
	}
}

// Parse builds the function table from tokens. eof is the empty span just
// past the end of the source. The returned program is always non-nil; when
// diagnostics are present it may contain ast.ErrorExpr nodes.
func Parse(tokens []lexer.Spanned, eof ast.Span) (*ast.Program, diag.List) {
	p := newParser(tokens, eof)
	for !p.atEnd() {
		if p.check(lexer.Fn) {
			p.parseFunction()
			continue
		}
		p.report(p.peek().Span, "expected 'fn', found %s", p.describe())
		p.skipToFunction()
	}
	return p.program, p.diags
}

// ParseSource lexes and parses src. Lexical diagnostics come first.
func ParseSource(src string) (*ast.Program, diag.List) {
	tokens, diags := lexer.Lex(src)
	program, parseDiags := Parse(tokens, lexer.EOFSpan(src))
	diags.Extend(parseDiags)
	return program, diags
}

// ParseExpr parses src as a single expression sequence, the contents of a
// function body.
func ParseExpr(src string) (ast.Expr, diag.List) {
	tokens, diags := lexer.Lex(src)
	p := newParser(tokens, lexer.EOFSpan(src))
	expr := p.parseSeq()
	if !p.atEnd() {
		p.report(p.peek().Span, "expected end of input, found %s", p.describe())
	}
	diags.Extend(p.diags)
	return expr, diags
}
