package interpreter

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/parser"
	"nano/interpreter-go/pkg/runtime"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	program, diags := parser.ParseSource(src)
	require.Empty(t, diags, "parse %q: %v", src, diags.Err())
	return program
}

func runMain(t *testing.T, src string, opts ...Option) (runtime.Value, string, error) {
	t.Helper()
	var out bytes.Buffer
	interp := New(mustParse(t, src), append([]Option{WithOutput(&out)}, opts...)...)
	val, err := interp.Call("main", nil)
	return val, out.String(), err
}

func requireDiagnostic(t *testing.T, err error, kind diag.Kind) *diag.Diagnostic {
	t.Helper()
	require.Error(t, err)
	var d *diag.Diagnostic
	require.True(t, errors.As(err, &d), "expected *diag.Diagnostic, got %T", err)
	require.Equal(t, kind, d.Kind, "message: %s", d.Message)
	return d
}

func TestLetIfPrintScenario(t *testing.T) {
	val, out, err := runMain(t, "fn main() { let x = 2; if x == 2 { print x + 3 } else { print 0 } }")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
	assert.Equal(t, runtime.Num(5), val)
}

func TestArityMismatch(t *testing.T) {
	src := "fn add(a,b) { a + b } fn main() { add(1,2,3) }"
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindArityMismatch)
	assert.Equal(t, "'add' called with wrong number of arguments (expected 2, found 3)", d.Message)
	assert.Equal(t, "add(1,2,3)", d.Span.Slice(src))
}

func TestArityCheckedBeforeArguments(t *testing.T) {
	_, out, err := runMain(t, "fn add(a,b) { a + b } fn main() { add(print 1, missing, 3) }")
	d := requireDiagnostic(t, err, diag.KindArityMismatch)
	assert.Contains(t, d.Message, "(expected 2, found 3)")
	assert.Empty(t, out)
}

func TestCalleeCannotSeeCallerLocals(t *testing.T) {
	src := "fn f() { x } fn main() { let x = 5; f() }"
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindUnboundVariable)
	assert.Equal(t, "no such variable 'x' in scope", d.Message)
	assert.Equal(t, "x", d.Span.Slice(src))
	require.Len(t, d.Notes, 1)
	assert.Equal(t, "'f' called from here", d.Notes[0].Message)
	assert.Equal(t, "f()", d.Notes[0].Span.Slice(src))
}

func TestStructuralEquality(t *testing.T) {
	val, _, err := runMain(t, `fn main() { [1 == true, [1] == [1], "a" != "a", null == null, main == main, [1, 2] == [2, 1]] }`)
	require.NoError(t, err)
	want := runtime.List(
		runtime.Bool(false),
		runtime.Bool(true),
		runtime.Bool(false),
		runtime.Bool(true),
		runtime.Bool(true),
		runtime.Bool(false),
	)
	assert.Equal(t, want, val)
}

func TestDivisionFollowsFloatingPoint(t *testing.T) {
	val, _, err := runMain(t, "fn main() { [1 / 0, -1 / 0, 0 / 0] }")
	require.NoError(t, err)
	list, ok := val.(runtime.ListValue)
	require.True(t, ok)
	require.Len(t, list.Elements, 3)
	assert.True(t, math.IsInf(list.Elements[0].(runtime.NumberValue).Val, 1))
	assert.True(t, math.IsInf(list.Elements[1].(runtime.NumberValue).Val, -1))
	assert.True(t, math.IsNaN(list.Elements[2].(runtime.NumberValue).Val))
}

func TestArithmeticTypeMismatch(t *testing.T) {
	src := "fn main() { 1 + true }"
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindTypeMismatch)
	assert.Equal(t, "'true' is not a number", d.Message)
	assert.Equal(t, "true", d.Span.Slice(src))
}

func TestLeftOperandCheckedFirst(t *testing.T) {
	src := `fn main() { "a" * null }`
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindTypeMismatch)
	assert.Equal(t, "'a' is not a number", d.Message)
}

func TestNotCallable(t *testing.T) {
	src := "fn main() { let n = 5; n(1) }"
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindTypeMismatch)
	assert.Equal(t, "'5' is not callable", d.Message)
	assert.Equal(t, "n", d.Span.Slice(src))
}

func TestConditionMustBeBoolean(t *testing.T) {
	src := "fn main() { if 1 { 2 } else { 3 } }"
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindTypeMismatch)
	assert.Equal(t, "conditions must be booleans, found '1'", d.Message)
}

func TestOnlyChosenBranchRuns(t *testing.T) {
	val, out, err := runMain(t, "fn main() { if true { 1 } else { print 2 } }")
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(1), val)
	assert.Empty(t, out)
}

func TestLetBindingInvisibleOutsideBody(t *testing.T) {
	src := "fn main() { (let x = 1; x) + x }"
	_, _, err := runMain(t, src)
	d := requireDiagnostic(t, err, diag.KindUnboundVariable)
	assert.Equal(t, strings.LastIndex(src, "x"), d.Span.Start)
}

func TestShadowing(t *testing.T) {
	val, _, err := runMain(t, "fn main() { let x = 1; let x = x + 1; x }")
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(2), val)
}

func TestStackReleasedOnError(t *testing.T) {
	expr, diags := parser.ParseExpr("let x = 1; let y = 2; x + true")
	require.Empty(t, diags)

	stack := runtime.NewStack()
	_, err := New(ast.NewProgram(ast.ZeroSpan())).Eval(expr, stack)
	requireDiagnostic(t, err, diag.KindTypeMismatch)
	assert.Equal(t, 0, stack.Len())
}

func TestEvalSeesProvidedStack(t *testing.T) {
	expr, diags := parser.ParseExpr("x * 2")
	require.Empty(t, diags)

	stack := runtime.NewStack()
	release := stack.Push("x", runtime.Num(21))
	defer release()
	val, err := New(ast.NewProgram(ast.ZeroSpan())).Eval(expr, stack)
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(42), val)
}

func TestArgumentsEvaluatedInCallerScope(t *testing.T) {
	val, _, err := runMain(t, "fn id(v) { v } fn main() { let y = 4; id(y * 2) }")
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(8), val)
}

func TestFunctionsAreValues(t *testing.T) {
	src := "fn twice(f, x) { f(f(x)) } fn inc(n) { n + 1 } fn main() { twice(inc, 5) }"
	val, _, err := runMain(t, src)
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(7), val)

	val, _, err = runMain(t, "fn inc(n) { n } fn main() { inc }")
	require.NoError(t, err)
	assert.Equal(t, runtime.Func("inc"), val)
}

func TestRecursion(t *testing.T) {
	src := `
fn fib(n) {
	if n == 0 { 0 } else if n == 1 { 1 } else { fib(n - 1) + fib(n - 2) }
}
fn main() { fib(15) }`
	val, _, err := runMain(t, src)
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(610), val)
}

func TestPrintReturnsItsValue(t *testing.T) {
	val, out, err := runMain(t, `fn main() { print print [1, "two", null]; print "done" }`)
	require.NoError(t, err)
	assert.Equal(t, "[1, two, null]\n[1, two, null]\ndone\n", out)
	assert.Equal(t, runtime.Str("done"), val)
}

func TestThenDiscardsFirstValue(t *testing.T) {
	val, _, err := runMain(t, "fn main() { 1; 2 }")
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(2), val)

	val, _, err = runMain(t, "fn main() { 1; }")
	require.NoError(t, err)
	assert.Equal(t, runtime.Null, val)
}

func TestCallDepthLimit(t *testing.T) {
	src := "fn spin(n) { spin(n + 1) } fn main() { spin(0) }"
	_, _, err := runMain(t, src, WithMaxCallDepth(50))
	d := requireDiagnostic(t, err, diag.KindStackOverflow)
	assert.Equal(t, "maximum call depth of 50 exceeded calling 'spin'", d.Message)
	assert.True(t, d.Kind.Fatal())
	assert.Len(t, d.Notes, maxCallNotes)
}

func TestDeepRecursionWithinDefaultLimit(t *testing.T) {
	src := "fn down(n) { if n == 0 { 0 } else { down(n - 1) } } fn main() { down(5000) }"
	val, _, err := runMain(t, src)
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(0), val)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestPrintWriteFailure(t *testing.T) {
	interp := New(mustParse(t, "fn main() { print 1 }"), WithOutput(failingWriter{}))
	_, err := interp.Call("main", nil)
	d := requireDiagnostic(t, err, diag.KindOutput)
	assert.Contains(t, d.Message, "disk full")
}

func TestHostCall(t *testing.T) {
	interp := New(mustParse(t, "fn scale(v, k) { v * k }"))

	val, err := interp.Call("scale", []runtime.Value{runtime.Num(3), runtime.Num(4)})
	require.NoError(t, err)
	assert.Equal(t, runtime.Num(12), val)
	assert.Equal(t, 0, interp.depth)

	_, err = interp.Call("scale", nil)
	requireDiagnostic(t, err, diag.KindArityMismatch)

	_, err = interp.Call("missing", nil)
	requireDiagnostic(t, err, diag.KindInternal)
}

func TestErrorExpressionIsNeverEvaluated(t *testing.T) {
	_, err := New(ast.NewProgram(ast.ZeroSpan())).Eval(ast.NewError(ast.NewSpan(1, 3)), nil)
	d := requireDiagnostic(t, err, diag.KindInternal)
	assert.Equal(t, ast.NewSpan(1, 3), d.Span)
}
