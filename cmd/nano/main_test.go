package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcgregorio/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nano/interpreter-go/pkg/ast"
	"nano/interpreter-go/pkg/diag"
	"nano/interpreter-go/pkg/driver"
)

func writeSource(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"nano", "--no-color"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs",
		"fn main() { let x = 2; if x == 2 { print x + 3 } else { print 0 } }")

	code, stdout, stderr := runCLI(t, "run", path)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "5\n", stdout)

	code, stdout, _ = runCLI(t, "run", "--print-result", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "5\nReturn value: 5\n", stdout)
}

func TestRunCommandEntryFlag(t *testing.T) {
	path := writeSource(t, t.TempDir(), "prog.nrs", `fn start() { print "started" }`)
	code, stdout, stderr := runCLI(t, "run", "--entry", "start", path)
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "started\n", stdout)
}

func TestRunCommandReportsRuntimeError(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs", "fn add(a,b) { a + b } fn main() { add(1,2,3) }")
	code, stdout, stderr := runCLI(t, "run", path)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "error[arity-mismatch]: 'add' called with wrong number of arguments (expected 2, found 3)")
	assert.Contains(t, stderr, "main.nrs:1:35")
	assert.Contains(t, stderr, "= note: 'add' declared here")
	assert.True(t, strings.HasSuffix(stderr, "1 error\n"))
}

func TestRunCommandMaxDepth(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs", "fn f(n) { f(n + 1) } fn main() { f(0) }")
	code, _, stderr := runCLI(t, "run", "--max-depth", "10", path)
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr, "error[stack-overflow]: maximum call depth of 10 exceeded calling 'f'")
	assert.True(t, strings.HasSuffix(stderr, "1 error (fatal)\n"))
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.nrs", "fn main() { 1 } fn other() { 2 }")
	code, stdout, _ := runCLI(t, "check", good)
	assert.Equal(t, 0, code)
	assert.Equal(t, good+": ok (2 functions)\n", stdout)

	bad := writeSource(t, dir, "bad.nrs", "fn main() { 1 $ }\nfn other() { # }")
	code, stdout, stderr := runCLI(t, "check", bad)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Equal(t, 2, strings.Count(stderr, "error[lex]"))
	assert.True(t, strings.HasSuffix(stderr, "2 errors\n"))
}

func TestTokensCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs", "fn main() { 1 }")
	code, stdout, _ := runCLI(t, "tokens", path)
	assert.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, []string{"0..2", "fn", "fn"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"12..13", "number", "1"}, strings.Fields(lines[5]))
}

func TestASTCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs", "fn main() { let x = 2; x * -1 }")
	code, stdout, _ := runCLI(t, "ast", path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "(fn main () (let x 2 (* x (* 1 -1))))\n", stdout)
}

func TestRunFromManifest(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "package.yml", "name: demo\nmain: app.nrs\nentry: go\n")
	writeSource(t, dir, "app.nrs", `fn go() { print "from manifest"; 7 }`)
	nested := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	code, stdout, stderr := runCLI(t, "run", "--print-result")
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "from manifest\nReturn value: 7\n", stdout)
}

func TestMissingFile(t *testing.T) {
	code, _, stderr := runCLI(t, "run", filepath.Join(t.TempDir(), "missing.nrs"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "nano: read ")
}

func TestTooManyArguments(t *testing.T) {
	code, _, stderr := runCLI(t, "check", "a.nrs", "b.nrs")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "expected at most one source file")
}

func TestVerboseLogging(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs", "fn main() { 1 }")
	code, _, stderr := runCLI(t, "--verbose", "run", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "compiled "+path)
}

func TestVerboseFlagDoesNotClashWithVersion(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.nrs", "fn main() { print 1 }")
	code, stdout, stderr := runCLI(t, "--verbose", "run", path)
	assert.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "1\n", stdout)

	code, stdout, _ = runCLI(t, "-v")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, cliToolVersion)
}

func TestReportWrapsDiagnostics(t *testing.T) {
	var stderr bytes.Buffer
	env := &cliEnv{stdout: &bytes.Buffer{}, stderr: &stderr, log: logger.NewNopLogger()}
	src := &driver.Source{Path: "x.nrs", Text: "1 $"}

	err := env.report(src, diag.List{diag.New(diag.KindLexError, ast.NewSpan(2, 3), "unexpected character \"$\"")})
	assert.ErrorIs(t, err, errReported)
	assert.NotErrorIs(t, err, errFatal)
	var d *diag.Diagnostic
	require.ErrorAs(t, err, &d)
	assert.Equal(t, diag.KindLexError, d.Kind)

	err = env.report(src, diag.List{diag.New(diag.KindInternal, ast.NewSpan(0, 1), "broken")})
	assert.ErrorIs(t, err, errFatal)
}
