// Package lexer turns nano source text into spanned tokens.
//
// Lexing never stops at the first problem: a character that cannot start a
// token is reported and skipped, and scanning resumes at the next character.
// Adjacent unrecognised characters are reported as a single diagnostic.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
)

const (
	operatorChars = "+*-/!="
	controlChars  = "()[]{};,"
)

type lexer struct {
	src    string
	pos    int
	tokens []Spanned
	diags  diag.List

	// badStart is the start of the current run of unrecognised characters,
	// or -1 when not inside one.
	badStart int
	badEnd   int
}

// Lex scans the whole source and returns every token it could recognise
// together with the lexical diagnostics.
func Lex(src string) ([]Spanned, diag.List) {
	l := &lexer{src: src, badStart: -1}
	l.run()
	return l.tokens, l.diags
}

// EOFSpan is the empty span just past the end of src.
func EOFSpan(src string) ast.Span {
	return ast.Span{Start: len(src), End: len(src)}
}

func (l *lexer) run() {
	for {
		l.skipTrivia()
		if l.pos >= len(l.src) {
			break
		}
		if !l.scanToken() {
			l.skipInvalid()
			continue
		}
		l.flushInvalid()
	}
	l.flushInvalid()
}

// skipTrivia consumes whitespace and // comments.
func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		if strings.HasPrefix(l.src[l.pos:], "//") {
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.src)
				return
			}
			l.pos += end + 1
			l.flushInvalid()
			continue
		}
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.pos += size
		l.flushInvalid()
	}
}

// scanToken lexes one token at l.pos. It reports false without consuming
// anything when no token starts here.
func (l *lexer) scanToken() bool {
	start := l.pos
	c := l.src[start]
	switch {
	case isDigit(c):
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	case strings.IndexByte(operatorChars, c) >= 0:
		end := start
		for end < len(l.src) && strings.IndexByte(operatorChars, l.src[end]) >= 0 {
			if strings.HasPrefix(l.src[end:], "//") {
				break
			}
			end++
		}
		l.emit(Token{Kind: Op, Text: l.src[start:end]}, start, end)
		return true
	case strings.IndexByte(controlChars, c) >= 0:
		l.emit(Token{Kind: Ctrl, Text: l.src[start : start+1], Ctrl: c}, start, start+1)
		return true
	}
	r, _ := utf8.DecodeRuneInString(l.src[start:])
	if isIdentStart(r) {
		l.scanIdent()
		return true
	}
	return false
}

func (l *lexer) scanNumber() bool {
	start := l.pos
	end := start
	for end < len(l.src) && isDigit(l.src[end]) {
		end++
	}
	if end+1 < len(l.src) && l.src[end] == '.' && isDigit(l.src[end+1]) {
		end++
		for end < len(l.src) && isDigit(l.src[end]) {
			end++
		}
	}
	text := l.src[start:end]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// Only reachable for literals outside the float64 range.
		l.flushInvalid()
		l.diags.Addf(diag.KindLexError, ast.NewSpan(start, end), "number literal '%s' cannot be represented", text)
		l.pos = end
		return true
	}
	l.emit(Token{Kind: Num, Text: text, Num: value}, start, end)
	return true
}

func (l *lexer) scanString() bool {
	start := l.pos
	for end := start + 1; end < len(l.src); end++ {
		switch l.src[end] {
		case '"':
			l.emit(Token{Kind: Str, Text: l.src[start+1 : end]}, start, end+1)
			return true
		case '\n':
			return l.unterminatedString(start, end)
		}
	}
	return l.unterminatedString(start, len(l.src))
}

func (l *lexer) unterminatedString(start, end int) bool {
	l.flushInvalid()
	l.diags.Addf(diag.KindLexError, ast.NewSpan(start, end), "unterminated string literal")
	l.pos = start + 1
	return true
}

func (l *lexer) scanIdent() {
	start := l.pos
	end := start
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if !isIdentContinue(r) {
			break
		}
		end += size
	}
	word := l.src[start:end]
	tok := Token{Kind: Ident, Text: word}
	if kind, ok := keywords[word]; ok {
		tok.Kind = kind
		tok.Bool = word == "true"
	}
	l.emit(tok, start, end)
}

func (l *lexer) emit(tok Token, start, end int) {
	l.tokens = append(l.tokens, Spanned{Token: tok, Span: ast.NewSpan(start, end)})
	l.pos = end
}

// skipInvalid consumes exactly one character that starts no token.
func (l *lexer) skipInvalid() {
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if l.badStart < 0 {
		l.badStart = l.pos
	}
	l.pos += size
	l.badEnd = l.pos
}

func (l *lexer) flushInvalid() {
	if l.badStart < 0 {
		return
	}
	span := ast.NewSpan(l.badStart, l.badEnd)
	text := span.Slice(l.src)
	if utf8.RuneCountInString(text) == 1 {
		l.diags.Addf(diag.KindLexError, span, "unexpected character %q", text)
	} else {
		l.diags.Addf(diag.KindLexError, span, "unexpected characters %q", text)
	}
	l.badStart = -1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
