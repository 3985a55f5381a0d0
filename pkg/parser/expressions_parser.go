package parser

import (
	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/lexer"
	"nano/interpreter-go/pkg/runtime"
)

var binaryOps = map[string]ast.BinaryOp{
	"+":  ast.OpAdd,
	"-":  ast.OpSub,
	"*":  ast.OpMul,
	"/":  ast.OpDiv,
	"==": ast.OpEq,
	"!=": ast.OpNotEq,
}

// parseEquality parses `additive (('==' | '!=') additive)*`, left-associative.
func (p *parser) parseEquality() ast.Expr {
	left := p.parseAdditive()
	for p.checkOp("==", "!=") {
		op := binaryOps[p.advance().Token.Text]
		right := p.parseAdditive()
		left = ast.NewBinary(left, op, right, left.Span().Union(right.Span()))
	}
	return left
}

func (p *parser) parseAdditive() ast.Expr {
	left := p.parseTerm()
	for p.checkOp("+", "-") {
		op := binaryOps[p.advance().Token.Text]
		right := p.parseTerm()
		left = ast.NewBinary(left, op, right, left.Span().Union(right.Span()))
	}
	return left
}

// parseTerm also rejects operator runs the lexer accepted but no rule uses,
// such as `*-` or `=`, while still consuming their right operand.
func (p *parser) parseTerm() ast.Expr {
	left := p.parseUnary()
	for p.check(lexer.Op) {
		tok := p.peek()
		op, known := binaryOps[tok.Token.Text]
		if known && op != ast.OpMul && op != ast.OpDiv {
			break
		}
		p.advance()
		right := p.parseUnary()
		span := left.Span().Union(right.Span())
		if !known {
			p.diags.Add(invalidOperator(tok))
			left = ast.NewError(span)
			continue
		}
		left = ast.NewBinary(left, op, right, span)
	}
	return left
}

// parseUnary desugars `-x` into `x * -1`.
func (p *parser) parseUnary() ast.Expr {
	if !p.checkOp("-") {
		return p.parsePostfix()
	}
	if !p.enter() {
		return p.fail("expression nested too deeply")
	}
	defer p.leave()

	minus := p.advance()
	operand := p.parseUnary()
	negOne := ast.NewLiteral(runtime.Num(-1), minus.Span)
	return ast.NewBinary(operand, ast.OpMul, negOne, minus.Span.Union(operand.Span()))
}

// parsePostfix parses a primary followed by any number of call argument
// lists.
func (p *parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for p.checkCtrl('(') {
		open := p.advance()
		args, end := p.parseItems(open, ')')
		expr = ast.NewCall(expr, args, expr.Span().Union(end))
	}
	return expr
}

func (p *parser) parsePrimary() ast.Expr {
	tok := p.peek()
	switch tok.Token.Kind {
	case lexer.Null:
		p.advance()
		return ast.NewLiteral(runtime.Null, tok.Span)
	case lexer.Bool:
		p.advance()
		return ast.NewLiteral(runtime.Bool(tok.Token.Bool), tok.Span)
	case lexer.Num:
		p.advance()
		return ast.NewLiteral(runtime.Num(tok.Token.Num), tok.Span)
	case lexer.Str:
		p.advance()
		return ast.NewLiteral(runtime.Str(tok.Token.Text), tok.Span)
	case lexer.Ident:
		p.advance()
		return ast.NewLocal(tok.Token.Text, tok.Span)
	case lexer.If:
		if !p.enter() {
			return p.fail("expression nested too deeply")
		}
		defer p.leave()
		return p.parseIf()
	case lexer.Print:
		return p.parsePrint()
	case lexer.Let:
		return p.fail("'let' must start a statement")
	case lexer.Ctrl:
		switch tok.Token.Ctrl {
		case '(':
			return p.parseGroup()
		case '[':
			open := p.advance()
			items, end := p.parseItems(open, ']')
			return ast.NewList(items, open.Span.Union(end))
		case '{':
			return p.parseBlock()
		}
	}
	return p.fail("expected expression, found %s", p.describe())
}

// parseGroup parses `( seq )`.
func (p *parser) parseGroup() ast.Expr {
	open := p.advance()
	if p.checkCtrl(')') {
		p.report(p.peek().Span, "expected expression, found ')'")
		closeTok := p.advance()
		return ast.NewError(open.Span.Union(closeTok.Span))
	}
	inner := p.parseSeq()
	p.expectClose(open, ')')
	return inner
}

// parseItems parses a comma-separated sequence list terminated by close.
// Trailing commas are accepted. It returns the items and the span of the
// closing delimiter.
func (p *parser) parseItems(open lexer.Spanned, close byte) ([]ast.Expr, ast.Span) {
	var items []ast.Expr
	for !p.checkCtrl(close) && !p.atEnd() && !p.check(lexer.Fn) {
		items = append(items, p.parseSeq())
		if !p.eatCtrl(',') {
			break
		}
	}
	return items, p.expectClose(open, close)
}

// parseBlock parses `{ seq? }`. An empty block evaluates to null.
func (p *parser) parseBlock() ast.Expr {
	if !p.checkCtrl('{') {
		p.report(p.peek().Span, "expected '{', found %s", p.describe())
		return ast.NewError(p.peek().Span)
	}
	open := p.advance()
	if p.checkCtrl('}') {
		closeTok := p.advance()
		return ast.NewLiteral(runtime.Null, open.Span.Union(closeTok.Span))
	}
	body := p.parseSeq()
	p.expectClose(open, '}')
	return body
}

// parseIf parses `if equality block else (if | block)`. Both branches are
// required.
func (p *parser) parseIf() ast.Expr {
	ifTok := p.advance()
	cond := p.parseEquality()
	then := p.parseBlock()

	var els ast.Expr
	if p.check(lexer.Else) {
		p.advance()
		if p.check(lexer.If) {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	} else {
		span := ast.NewSpan(p.previous().Span.End, p.previous().Span.End)
		if d := p.report(p.peek().Span, "expected 'else' after if branch, found %s", p.describe()); d != nil {
			d.WithNote(ifTok.Span, "an if expression needs both branches")
		}
		els = ast.NewError(span)
	}
	return ast.NewIf(cond, then, els, ifTok.Span.Union(els.Span()))
}

// parsePrint parses `print equality`.
func (p *parser) parsePrint() ast.Expr {
	if !p.enter() {
		return p.fail("expression nested too deeply")
	}
	defer p.leave()

	printTok := p.advance()
	operand := p.parseEquality()
	return ast.NewPrint(operand, printTok.Span.Union(operand.Span()))
}
