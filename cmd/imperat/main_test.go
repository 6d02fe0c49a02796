package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imperat/internal/codegen"
	"imperat/internal/compiler"
)

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestRunCLINoArgs(t *testing.T) {
	var out bytes.Buffer
	code := runCLI(nil, strings.NewReader(""), &out, &out)
	if code != 1 {
		t.Fatalf("runCLI() code=%d want=1", code)
	}
	if !strings.Contains(out.String(), "Usage: imperat") {
		t.Fatalf("expected usage output, got:\n%s", out.String())
	}
}

func TestMainUsesExitFn(t *testing.T) {
	oldArgs := os.Args
	oldExit := exitFn
	defer func() {
		os.Args = oldArgs
		exitFn = oldExit
	}()

	os.Args = []string{"imperat"}
	got := -1
	exitFn = func(code int) { got = code }
	main()
	if got != 1 {
		t.Fatalf("main exit code=%d want=1", got)
	}
}

func TestRunCLIUnknownCommandAndArity(t *testing.T) {
	var out bytes.Buffer
	if code := runCLI([]string{"frobnicate", "x.imperat"}, strings.NewReader(""), &out, &out); code != 1 {
		t.Fatalf("unknown command code=%d", code)
	}
	if !strings.Contains(out.String(), `unknown command "frobnicate"`) {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	if code := runCLI([]string{"check"}, strings.NewReader(""), &out, &out); code != 1 {
		t.Fatalf("missing file code=%d", code)
	}
	if !strings.Contains(out.String(), "invalid number of arguments") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunCLIRejectsWrongExtension(t *testing.T) {
	t.Setenv("IMPERAT_EXT", "")
	path := writeSource(t, "prog.txt", "{ skip }")
	var out bytes.Buffer
	code := runCLI([]string{"check", path}, strings.NewReader(""), &out, &out)
	if code != 1 || !strings.Contains(out.String(), "Error: the extension must be .imperat") {
		t.Fatalf("code=%d out=%s", code, out.String())
	}
}

func TestRunCLICheckPrintsDecoratedAST(t *testing.T) {
	path := writeSource(t, "prog.imperat", "{ int x; x := 3+4 }")
	var out bytes.Buffer
	code := runCLI([]string{"check", path}, strings.NewReader(""), &out, &out)
	if code != 0 {
		t.Fatalf("check code=%d out=%s", code, out.String())
	}
	for _, want := range []string{"Block", "Symbols Table", "variable: x | type: int", "Asig", "Plus | type: int"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("check output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunCLIReportsSemanticErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"{ int c; c := d }", "Variable not declared at line 1 and column 15"},
		{"{ int x; int x; skip }", "line 1"},
		{"{ function[..1] a; a := 1,2,3 }", "Assignment to a expects 2 values, but found 3"},
	}
	for _, tt := range tests {
		path := writeSource(t, "bad.imperat", tt.src)
		var out, errOut bytes.Buffer
		code := runCLI([]string{"run", path}, strings.NewReader(""), &out, &errOut)
		if code != 1 {
			t.Fatalf("%s: code=%d want=1", tt.src, code)
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Fatalf("%s: output=%q want %q", tt.src, out.String(), tt.want)
		}
		if strings.Count(strings.TrimSpace(out.String()), "\n") != 0 {
			t.Fatalf("%s: expected a single line, got %q", tt.src, out.String())
		}
	}
}

func TestRunCLIVerboseRendersExcerpt(t *testing.T) {
	path := writeSource(t, "bad.imperat", "{ int c;\n  c := d }")
	var out, errOut bytes.Buffer
	code := runCLI([]string{"check", "-v", path}, strings.NewReader(""), &out, &errOut)
	if code != 1 {
		t.Fatalf("code=%d", code)
	}
	if !strings.Contains(errOut.String(), path+":2:8") || !strings.Contains(errOut.String(), "c := d") {
		t.Fatalf("unexpected verbose excerpt:\n%s", errOut.String())
	}
}

func TestRunCLITranslateWritesArtifact(t *testing.T) {
	t.Setenv("IMPERAT_OUT_EXT", "")
	path := writeSource(t, "prog.imperat", "{ int x; x := 3+4 }")
	var out bytes.Buffer
	code := runCLI([]string{"translate", path}, strings.NewReader(""), &out, &out)
	if code != 0 {
		t.Fatalf("translate code=%d out=%s", code, out.String())
	}
	want := strings.TrimSuffix(path, ".imperat") + ".py"
	if strings.TrimSpace(out.String()) != "File "+want+" created" {
		t.Fatalf("unexpected confirmation %q", out.String())
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.Contains(string(data), "result = program(cons(0)(nil))") {
		t.Fatalf("unexpected artifact:\n%s", data)
	}

	out.Reset()
	explicit := filepath.Join(t.TempDir(), "custom.py")
	if code := runCLI([]string{"translate", path, explicit}, strings.NewReader(""), &out, &out); code != 0 {
		t.Fatalf("translate with positional output code=%d out=%s", code, out.String())
	}
	if _, err := os.Stat(explicit); err != nil {
		t.Fatalf("expected %s: %v", explicit, err)
	}
}

func TestRunCLITranslateFromStdinPrintsSource(t *testing.T) {
	var out bytes.Buffer
	code := runCLI([]string{"translate", "-"}, strings.NewReader("{ int x; x := 1 }"), &out, &out)
	if code != 0 {
		t.Fatalf("code=%d out=%s", code, out.String())
	}
	if !strings.Contains(out.String(), "program = lambda s:") {
		t.Fatalf("expected artifact on stdout, got:\n%s", out.String())
	}
}

func TestRunCLIWriteFailure(t *testing.T) {
	oldWrite := writeFn
	defer func() { writeFn = oldWrite }()
	writeFn = func(string, *codegen.Artifact) error { return errors.New("disk full") }

	path := writeSource(t, "prog.imperat", "{ skip }")
	var out bytes.Buffer
	code := runCLI([]string{"translate", "-o", "x.py", path}, strings.NewReader(""), &out, &out)
	if code != 1 || !strings.Contains(out.String(), "disk full") {
		t.Fatalf("code=%d out=%s", code, out.String())
	}
}

func TestRunCLIRunPrintsObservableState(t *testing.T) {
	path := writeSource(t, "prog.imperat", "{ function[..2] a; int y; a := 1,2,3; y := a@1 }")
	var out bytes.Buffer
	code := runCLI([]string{"run", path}, strings.NewReader(""), &out, &out)
	if code != 0 {
		t.Fatalf("run code=%d out=%s", code, out.String())
	}
	if got := strings.TrimSpace(out.String()); got != "{'a0': 1, 'a1': 2, 'a2': 3, 'y': 2}" {
		t.Fatalf("run output=%q", got)
	}
}

func TestRunCLIRunOutOfFuel(t *testing.T) {
	path := writeSource(t, "loop.imperat", "{ int x; while true --> x := x + 1 end }")
	var out bytes.Buffer
	code := runCLI([]string{"run", "-fuel", "5000", path}, strings.NewReader(""), &out, &out)
	if code != 1 || !strings.Contains(out.String(), "evaluation failed") {
		t.Fatalf("code=%d out=%s", code, out.String())
	}
}

func TestRunCLIUsesCompileFn(t *testing.T) {
	oldCompile := compileFn
	defer func() { compileFn = oldCompile }()
	compileFn = func(string) (*compiler.Result, error) { return nil, errors.New("compile boom") }

	path := writeSource(t, "prog.imperat", "{ skip }")
	var out bytes.Buffer
	if code := runCLI([]string{"run", path}, strings.NewReader(""), &out, &out); code != 1 {
		t.Fatalf("code=%d", code)
	}
	if strings.TrimSpace(out.String()) != "compile boom" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunCLIReplDispatch(t *testing.T) {
	oldREPL := replFn
	defer func() { replFn = oldREPL }()

	called := false
	replFn = func(o *options) error {
		called = true
		evalSnippet(o, "{ int x; x := 2 * 21 }", false)
		return nil
	}
	var out bytes.Buffer
	if code := runCLI([]string{"repl"}, strings.NewReader(""), &out, &out); code != 0 || !called {
		t.Fatalf("code=%d called=%v", code, called)
	}
	if strings.TrimSpace(out.String()) != "{'x': 42}" {
		t.Fatalf("unexpected repl output %q", out.String())
	}
}

func TestRunCLIWatchNeedsFile(t *testing.T) {
	var out bytes.Buffer
	code := runCLI([]string{"run", "-watch", "-"}, strings.NewReader("{ skip }"), &out, &out)
	if code != 1 || !strings.Contains(out.String(), "-watch needs a source file") {
		t.Fatalf("code=%d out=%s", code, out.String())
	}
}

func TestNeedsMore(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"{ int x;", true},
		{"{ int x; x := 1 }", false},
		{"{ { skip }", true},
		{`{ print "}" `, true},
		{"{ // }\n", true},
		{"", false},
		{":quit", false},
	}
	for _, tt := range tests {
		if got := needsMore(tt.src); got != tt.want {
			t.Fatalf("needsMore(%q)=%v want %v", tt.src, got, tt.want)
		}
	}
}
