package parser

import (
	"fmt"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/lexer"
)

// report records a syntax error unless one was already reported at the
// current token.
func (p *parser) report(span ast.Span, format string, args ...any) *diag.Diagnostic {
	if p.lastErr == p.pos {
		return nil
	}
	p.lastErr = p.pos
	d := diag.New(diag.KindSyntaxError, span, format, args...)
	p.diags.Add(d)
	return d
}

// synchronize skips tokens up to the next boundary at the current nesting
// level: ';' or ',', an unmatched closing delimiter, 'fn', or end of input.
// Nested delimiters are skipped as a unit. It returns the span of the skipped
// tokens, or the span of the next token when nothing was skipped.
func (p *parser) synchronize() ast.Span {
	span := p.peek().Span
	skipped := false
	depth := 0
	for depth > 0 || !p.atBoundary() {
		if p.atEnd() || p.check(lexer.Fn) {
			break
		}
		tok := p.peek().Token
		if tok.Kind == lexer.Ctrl {
			switch tok.Ctrl {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			}
		}
		consumed := p.advance().Span
		if !skipped {
			span = consumed
			skipped = true
		} else {
			span = span.Union(consumed)
		}
	}
	return span
}

// fail reports an error at the next token, skips to the next boundary
// and returns a placeholder covering what was skipped.
func (p *parser) fail(format string, args ...any) ast.Expr {
	p.report(p.peek().Span, format, args...)
	return ast.NewError(p.synchronize())
}

// expectClose consumes the delimiter that closes open. When it is missing,
// tokens are skipped up to the matching closer; a mismatched closer that
// belongs to an enclosing construct, 'fn', or end of input stops the skip
// without being consumed. It returns the span of the closer, or of the last
// consumed token when the closer was not found.
func (p *parser) expectClose(open lexer.Spanned, close byte) ast.Span {
	if p.checkCtrl(close) {
		return p.advance().Span
	}
	if d := p.report(p.peek().Span, "expected '%c', found %s", close, p.describe()); d != nil {
		d.WithNote(open.Span, fmt.Sprintf("unclosed '%c' opened here", open.Token.Ctrl))
	}
	depth := 0
	for !p.atEnd() && !p.check(lexer.Fn) {
		tok := p.peek().Token
		if tok.Kind == lexer.Ctrl {
			switch tok.Ctrl {
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				if depth == 0 {
					if tok.Ctrl == close {
						return p.advance().Span
					}
					return p.previous().Span
				}
				depth--
			}
		}
		p.advance()
	}
	return p.previous().Span
}

// skipToFunction discards tokens up to the next 'fn' keyword. At least one
// token is consumed unless the parser is already at 'fn' or end of input.
func (p *parser) skipToFunction() {
	if p.atEnd() || p.check(lexer.Fn) {
		return
	}
	p.advance()
	for !p.atEnd() && !p.check(lexer.Fn) {
		p.advance()
	}
}

// enter guards against unbounded nesting; callers must call leave when it
// returns true.
func (p *parser) enter() bool {
	if p.depth >= maxNesting {
		return false
	}
	p.depth++
	return true
}

func (p *parser) leave() {
	p.depth--
}

func duplicateFunction(fn, prior *ast.Func) *diag.Diagnostic {
	return diag.New(diag.KindSyntaxError, fn.NameSpan, "function '%s' already exists", fn.Name).
		WithNote(prior.NameSpan, "first declared here")
}

func invalidOperator(tok lexer.Spanned) *diag.Diagnostic {
	return diag.New(diag.KindSyntaxError, tok.Span, "invalid operator '%s'", tok.Token.Text)
}
