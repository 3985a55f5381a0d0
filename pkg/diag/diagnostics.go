// Package diag holds the span-tagged diagnostics produced by every stage of
// the pipeline. Lexing and parsing accumulate diagnostics into a List;
// evaluation stops at the first one and returns it as an error.
package diag

import (
	"fmt"
	"sort"
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"nano/interpreter-go/pkg/ast"
)

// Kind classifies a diagnostic.
type Kind int

const (
	KindLexError Kind = iota
	KindSyntaxError
	KindUnboundVariable
	KindTypeMismatch
	KindArityMismatch
	KindMissingEntryPoint
	KindEntryPointHasArguments
	KindStackOverflow
	KindOutput
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLexError:
		return "lex"
	case KindSyntaxError:
		return "syntax"
	case KindUnboundVariable:
		return "unbound-variable"
	case KindTypeMismatch:
		return "type-mismatch"
	case KindArityMismatch:
		return "arity-mismatch"
	case KindMissingEntryPoint:
		return "missing-entry-point"
	case KindEntryPointHasArguments:
		return "entry-point-has-arguments"
	case KindStackOverflow:
		return "stack-overflow"
	case KindOutput:
		return "output"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Fatal reports whether the kind signals a non-recoverable host condition
// rather than an error in the program being run.
func (k Kind) Fatal() bool {
	return k == KindStackOverflow || k == KindInternal
}

// Note is a secondary message attached to a diagnostic.
type Note struct {
	Message string
	Span    ast.Span
}

// Diagnostic is a message tied to a source span.
type Diagnostic struct {
	Kind    Kind
	Span    ast.Span
	Message string
	Notes   []Note
}

// New constructs a diagnostic.
func New(kind Kind, span ast.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...)}
}

func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%s error at %s: %s", d.Kind, d.Span, d.Message)
}

// WithNote appends a note and returns the diagnostic.
func (d *Diagnostic) WithNote(span ast.Span, message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message, Span: span})
	return d
}

// List is an ordered collection of diagnostics.
type List []*Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d *Diagnostic) {
	if d == nil {
		return
	}
	*l = append(*l, d)
}

// Addf constructs and appends a diagnostic.
func (l *List) Addf(kind Kind, span ast.Span, format string, args ...any) {
	l.Add(New(kind, span, format, args...))
}

// Extend appends every diagnostic in other.
func (l *List) Extend(other List) {
	*l = append(*l, other...)
}

// HasErrors reports whether the list is non-empty.
func (l List) HasErrors() bool {
	return len(l) > 0
}

// HasFatal reports whether any diagnostic in the list is fatal.
func (l List) HasFatal() bool {
	for _, d := range l {
		if d.Kind.Fatal() {
			return true
		}
	}
	return false
}

// Sorted returns a copy ordered by span start; ties keep insertion order.
func (l List) Sorted() List {
	out := make(List, len(l))
	copy(out, l)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Span.Start < out[j].Span.Start
	})
	return out
}

// Err folds the list into a single error, or nil when it is empty.
func (l List) Err() error {
	var result *multierror.Error
	for _, d := range l {
		result = multierror.Append(result, d)
	}
	if result != nil {
		result.ErrorFormat = formatList
	}
	return result.ErrorOrNil()
}

func formatList(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	lines := make([]string, 0, len(errs)+1)
	lines = append(lines, fmt.Sprintf("%d diagnostics:", len(errs)))
	for _, err := range errs {
		lines = append(lines, "- "+err.Error())
	}
	return strings.Join(lines, "\n")
}
