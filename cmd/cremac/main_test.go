package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunEmitLLProducesAssembly(t *testing.T) {
	src := `{
  "type": "Block",
  "stmts": [
    {"type": "ReturnStmt", "result": {"type": "IntLit", "value": 3}}
  ]
}`
	filename := writeTempASTFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitLL exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if !strings.Contains(out, "define i64 @main(i64 %argc, ptr %argv) {") {
		t.Fatalf("assembly missing entry definition:\n%s", out)
	}
	if !strings.Contains(out, "ret i64 3") {
		t.Fatalf("assembly missing return:\n%s", out)
	}
}

func TestRunEmitIRPrintsModule(t *testing.T) {
	src := `{
  "type": "Block",
  "stmts": [
    {"type": "ReturnStmt", "result": {"type": "IntLit", "value": 0}}
  ]
}`
	filename := writeTempASTFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitIR(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitIR exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if !strings.Contains(out, "module main") {
		t.Fatalf("IR output missing module header:\n%s", out)
	}
	if !strings.Contains(out, "Return") {
		t.Fatalf("IR output missing terminator:\n%s", out)
	}
}

func TestRunEmitLayoutOutputsStructLayout(t *testing.T) {
	src := `{
  "type": "Block",
  "stmts": [
    {
      "type": "StructDecl",
      "name": "Pair",
      "members": [
        {"type": "VarDecl", "name": "a", "vartype": {"code": "int"}},
        {"type": "VarDecl", "name": "b", "vartype": {"code": "int"}}
      ]
    }
  ]
}`
	filename := writeTempASTFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitLayout(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitLayout exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if !strings.Contains(out, "=== Struct Layouts ===") {
		t.Fatalf("layout output missing header:\n%s", out)
	}
	if !strings.Contains(out, "struct Pair {") {
		t.Fatalf("layout output missing struct block:\n%s", out)
	}
	if !strings.Contains(out, "offset: 8, align: 8") {
		t.Fatalf("layout output missing field b details:\n%s", out)
	}
	if !strings.Contains(out, "// size: 16") {
		t.Fatalf("layout output missing struct size:\n%s", out)
	}
}

func TestRejectedProgramReportsError(t *testing.T) {
	src := `{
  "type": "Block",
  "stmts": [
    {
      "type": "VarDecl",
      "name": "x",
      "vartype": {"code": "int"},
      "init": {"type": "DoubleLit", "value": 2.5}
    }
  ]
}`
	filename := writeTempASTFile(t, src)
	code, _, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})

	if code != 1 {
		t.Fatalf("runEmitLL exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "cannot use double value to initialize x") {
		t.Fatalf("stderr missing diagnostic:\n%s", errOut)
	}
}

func TestUpcastWarningGoesToStderr(t *testing.T) {
	src := `{
  "type": "Block",
  "stmts": [
    {
      "type": "VarDecl",
      "name": "d",
      "vartype": {"code": "double"},
      "init": {"type": "IntLit", "value": 1}
    }
  ]
}`
	filename := writeTempASTFile(t, src)
	code, _, errOut := captureOutput(t, func() int {
		return runEmitLL(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitLL exit=%d\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "implicit upcast from int to double") {
		t.Fatalf("stderr missing warning:\n%s", errOut)
	}
}

func TestMissingInputFileFails(t *testing.T) {
	code, _, errOut := captureOutput(t, func() int {
		return runEmitLL(filepath.Join(t.TempDir(), "missing.ast.json"))
	})

	if code != 1 {
		t.Fatalf("runEmitLL exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, "error:") {
		t.Fatalf("stderr missing error:\n%s", errOut)
	}
}

func writeTempASTFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.ast.json")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}
