package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
)

func TestRenderDiagnostic(t *testing.T) {
	color.NoColor = true
	src := "fn main() {\n  1 + true\n}"
	var out bytes.Buffer
	r := newRenderer(&out, "test.nrs", src)

	d := diag.New(diag.KindTypeMismatch, ast.NewSpan(18, 22), "'true' is not a number").
		WithNote(ast.NewSpan(3, 7), "in this function")
	r.Render(d)

	want := "error[type-mismatch]: 'true' is not a number\n" +
		" --> test.nrs:2:7\n" +
		"  |\n" +
		"2 |   1 + true\n" +
		"  |       ^^^^\n" +
		"  = note: in this function (test.nrs:1:4)\n"
	assert.Equal(t, want, out.String())
}

func TestRenderAtEndOfInput(t *testing.T) {
	color.NoColor = true
	src := "fn main() { 1 +"
	var out bytes.Buffer
	r := newRenderer(&out, "eof.nrs", src)
	r.Render(diag.New(diag.KindSyntaxError, ast.NewSpan(len(src), len(src)), "expected expression, found end of input"))

	assert.Contains(t, out.String(), " --> eof.nrs:1:16\n")
	assert.Contains(t, out.String(), "1 | fn main() { 1 +\n")
	assert.Contains(t, out.String(), "  |                ^\n")
}

func TestPosition(t *testing.T) {
	r := newRenderer(&bytes.Buffer{}, "x", "ab\nλc\n\nd")
	line, col := r.position(0)
	assert.Equal(t, [2]int{1, 1}, [2]int{line, col})
	line, col = r.position(5)
	assert.Equal(t, [2]int{2, 2}, [2]int{line, col})
	line, col = r.position(8)
	assert.Equal(t, [2]int{4, 1}, [2]int{line, col})
}

func TestRenderAllSortsBySpan(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	r := newRenderer(&out, "x", "a b")
	n := r.RenderAll(diag.List{
		diag.New(diag.KindSyntaxError, ast.NewSpan(2, 3), "second"),
		diag.New(diag.KindLexError, ast.NewSpan(0, 1), "first"),
	})
	assert.Equal(t, 2, n)
	assert.Less(t, bytes.Index(out.Bytes(), []byte("first")), bytes.Index(out.Bytes(), []byte("second")))
}
