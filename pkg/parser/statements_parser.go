package parser

import (
	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/lexer"
	"nano/interpreter-go/pkg/runtime"
)

// statement is one element of a sequence before it is folded into the tree.
type statement struct {
	expr ast.Expr

	// Set for `let NAME = expr;` statements, whose body is the rest of the
	// sequence.
	isLet    bool
	name     string
	nameSpan ast.Span
	start    int
}

// parseSeq parses a statement sequence: the contents of a block, a
// parenthesised group, a list element or a call argument.
//
//	seq  := stmt (';' stmt)* ';'?
//	stmt := 'let' IDENT '=' equality | item
//
// A trailing ';' yields null. An if or block followed directly by another
// statement is sequenced without a separator. Statements are collected
// iteratively and folded right, so long sequences do not count against the
// nesting limit.
func (p *parser) parseSeq() ast.Expr {
	if !p.enter() {
		return p.fail("expression nested too deeply")
	}
	defer p.leave()

	var (
		stmts []statement
		tail  ast.Expr
	)
	for tail == nil {
		if p.check(lexer.Let) {
			stmt := p.parseLet()
			stmts = append(stmts, stmt)
			if !p.startsExpression() {
				tail = ast.NewLiteral(runtime.Null, p.previous().Span)
			}
			continue
		}

		blocky := p.check(lexer.If) || p.checkCtrl('{')
		item := p.parseItem()
		switch {
		case p.checkCtrl(';'):
			semi := p.advance()
			stmts = append(stmts, statement{expr: item})
			if !p.startsExpression() {
				tail = ast.NewLiteral(runtime.Null, semi.Span)
			}
		case blocky && p.startsExpression():
			stmts = append(stmts, statement{expr: item})
		default:
			tail = item
		}
	}

	result := tail
	for i := len(stmts) - 1; i >= 0; i-- {
		stmt := stmts[i]
		if stmt.isLet {
			span := ast.NewSpan(stmt.start, result.Span().End)
			result = ast.NewLet(stmt.name, stmt.nameSpan, stmt.expr, result, span)
			continue
		}
		result = ast.NewThen(stmt.expr, result, stmt.expr.Span().Union(result.Span()))
	}
	return result
}

// parseLet parses `let NAME = equality ;`. A malformed header produces an
// error statement and resumes after the next ';'.
func (p *parser) parseLet() statement {
	letTok := p.advance()

	if !p.check(lexer.Ident) {
		expr := p.fail("expected variable name after 'let', found %s", p.describe())
		p.eatCtrl(';')
		return statement{expr: ast.NewError(letTok.Span.Union(expr.Span()))}
	}
	nameTok := p.advance()

	if !p.checkOp("=") {
		expr := p.fail("expected '=' after '%s', found %s", nameTok.Token.Text, p.describe())
		p.eatCtrl(';')
		return statement{expr: ast.NewError(letTok.Span.Union(expr.Span()))}
	}
	p.advance()

	value := p.parseEquality()
	if !p.eatCtrl(';') {
		p.report(p.peek().Span, "expected ';' after the value of '%s', found %s", nameTok.Token.Text, p.describe())
		if !p.startsExpression() {
			p.synchronize()
			p.eatCtrl(';')
		}
	}
	return statement{
		expr:     value,
		isLet:    true,
		name:     nameTok.Token.Text,
		nameSpan: nameTok.Span,
		start:    letTok.Span.Start,
	}
}

// parseItem parses one non-let statement. An if expression or a bare block
// at statement position ends the statement, so `if c {a} else {b} - 1` is
// two statements, not a subtraction.
func (p *parser) parseItem() ast.Expr {
	switch {
	case p.check(lexer.If):
		return p.parseIf()
	case p.checkCtrl('{'):
		return p.parseBlock()
	}
	return p.parseEquality()
}
