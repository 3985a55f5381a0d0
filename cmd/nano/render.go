package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
)

var (
	errorStyle  = color.New(color.FgRed, color.Bold)
	gutterStyle = color.New(color.FgBlue, color.Bold)
	caretStyle  = color.New(color.FgRed)
	noteStyle   = color.New(color.FgCyan)
)

// renderer prints diagnostics against one source text.
type renderer struct {
	w    io.Writer
	name string
	src  string
	// lineStarts holds the byte offset of each line's first character.
	lineStarts []int
}

func newRenderer(w io.Writer, name, src string) *renderer {
	starts := []int{0}
	for idx := 0; idx < len(src); idx++ {
		if src[idx] == '\n' {
			starts = append(starts, idx+1)
		}
	}
	return &renderer{w: w, name: name, src: src, lineStarts: starts}
}

// position converts a byte offset to a 1-based line and rune column.
func (r *renderer) position(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(r.src) {
		offset = len(r.src)
	}
	idx := sort.Search(len(r.lineStarts), func(i int) bool {
		return r.lineStarts[i] > offset
	}) - 1
	start := r.lineStarts[idx]
	return idx + 1, utf8.RuneCountInString(r.src[start:offset]) + 1
}

// lineText returns the text of a 1-based line without its newline.
func (r *renderer) lineText(line int) string {
	start := r.lineStarts[line-1]
	end := len(r.src)
	if line < len(r.lineStarts) {
		end = r.lineStarts[line] - 1
	}
	return strings.TrimSuffix(r.src[start:end], "\r")
}

func (r *renderer) location(span ast.Span) string {
	line, col := r.position(span.Start)
	return fmt.Sprintf("%s:%d:%d", r.name, line, col)
}

// RenderAll prints every diagnostic in source order and returns how many
// were printed.
func (r *renderer) RenderAll(list diag.List) int {
	sorted := list.Sorted()
	for _, d := range sorted {
		r.Render(d)
	}
	return len(sorted)
}

// Render prints one diagnostic with its source line and a caret underline.
func (r *renderer) Render(d *diag.Diagnostic) {
	line, col := r.position(d.Span.Start)
	text := r.lineText(line)
	gutter := strings.Repeat(" ", len(fmt.Sprint(line)))

	errorStyle.Fprintf(r.w, "error[%s]", d.Kind)
	fmt.Fprintf(r.w, ": %s\n", d.Message)
	gutterStyle.Fprintf(r.w, "%s--> ", gutter)
	fmt.Fprintf(r.w, "%s:%d:%d\n", r.name, line, col)
	gutterStyle.Fprintf(r.w, "%s |\n", gutter)
	gutterStyle.Fprintf(r.w, "%d | ", line)
	fmt.Fprintln(r.w, text)
	gutterStyle.Fprintf(r.w, "%s | ", gutter)
	fmt.Fprint(r.w, padding(text, col))
	caretStyle.Fprintln(r.w, strings.Repeat("^", r.underlineWidth(d.Span, line)))

	for _, note := range d.Notes {
		noteStyle.Fprintf(r.w, "%s = note", gutter)
		fmt.Fprintf(r.w, ": %s (%s)\n", note.Message, r.location(note.Span))
	}
}

// underlineWidth is the number of columns the span covers on line, at
// least one.
func (r *renderer) underlineWidth(span ast.Span, line int) int {
	lineEnd := len(r.src)
	if line < len(r.lineStarts) {
		lineEnd = r.lineStarts[line] - 1
	}
	end := span.End
	if end > lineEnd {
		end = lineEnd
	}
	if end <= span.Start || span.Start >= len(r.src) {
		return 1
	}
	return utf8.RuneCountInString(r.src[span.Start:end])
}

// padding reproduces the whitespace before col so the caret lines up, tabs
// included.
func padding(text string, col int) string {
	var b strings.Builder
	n := 0
	for _, ch := range text {
		if n >= col-1 {
			break
		}
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	for ; n < col-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}
