package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"alin/interpreter-go/pkg/driver"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	t.Setenv(driver.ConfigEnvVar, "")
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"alin"}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeSource(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestVersionAndHelp(t *testing.T) {
	res := runCLI(t, "", "-V")
	if res.code != 0 || res.stdout != cliToolVersion+"\n" {
		t.Fatalf("-V = %d %q", res.code, res.stdout)
	}
	res = runCLI(t, "", "-h")
	if res.code != 0 || !strings.HasPrefix(res.stdout, "usage: alin") {
		t.Fatalf("-h = %d %q", res.code, res.stdout)
	}
	if !strings.Contains(res.stdout, "three consecutive read errors") {
		t.Fatalf("usage should describe when the session stops: %q", res.stdout)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := [][]string{
		{"-x"},
		{"a.alin", "b.alin"},
		{"-l", "chatty"},
	}
	for _, args := range cases {
		res := runCLI(t, "", args...)
		if res.code != 2 {
			t.Fatalf("%v: exit = %d, want 2 (stderr %q)", args, res.code, res.stderr)
		}
	}
}

func TestRunFile(t *testing.T) {
	path := writeSource(t, "main.alin", "total = 1 + 2\nprint(total)\nnope()\n")
	res := runCLI(t, "", path)
	if res.code != 0 {
		t.Fatalf("exit = %d, stderr %q", res.code, res.stderr)
	}
	if want := "Running file: " + path + "\n3\n"; res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
	if want := "eval error [3:1]: unknown function: nope\n"; res.stderr != want {
		t.Fatalf("stderr = %q, want %q", res.stderr, want)
	}
}

func TestRunFileParseErrorFails(t *testing.T) {
	path := writeSource(t, "bad.alin", "print(1)\nx = )\n")
	res := runCLI(t, "", path)
	if res.code != 1 {
		t.Fatalf("exit = %d, want 1", res.code)
	}
	if res.stdout != "Running file: "+path+"\n" {
		t.Fatalf("nothing should run after a parse error, stdout %q", res.stdout)
	}
	if !strings.Contains(res.stderr, "parse error [2:5]") {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestMissingFileIsNotAFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.alin")
	res := runCLI(t, "", path)
	if res.code != 0 {
		t.Fatalf("exit = %d, want 0", res.code)
	}
	if res.stderr != "File not found: "+path+"\n" {
		t.Fatalf("stderr = %q", res.stderr)
	}
}

func TestREPLFromStdin(t *testing.T) {
	res := runCLI(t, "x = 4\nprint(x * x)\nexit()\nprint(0)\n")
	if res.code != 0 {
		t.Fatalf("exit = %d, stderr %q", res.code, res.stderr)
	}
	if res.stdout != "16\n" {
		t.Fatalf("stdout = %q", res.stdout)
	}
}

func TestDumpTokens(t *testing.T) {
	res := runCLI(t, "x = 1", "-t")
	if res.code != 0 {
		t.Fatalf("exit = %d, stderr %q", res.code, res.stderr)
	}
	want := "1:1\tIDENTIFIER\tidentifier x\n" +
		"1:3\t=\t'='\n" +
		"1:5\tNUMBER\tnumber 1\n" +
		"1:6\tEOF\t<eof>\n"
	if res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestDumpAST(t *testing.T) {
	path := writeSource(t, "ast.alin", "x = 1 + 2")
	res := runCLI(t, "", "-p", path)
	if res.code != 0 {
		t.Fatalf("exit = %d, stderr %q", res.code, res.stderr)
	}
	for _, fragment := range []string{`"type": "Assignment"`, `"type": "BinaryExpression"`, `"name": "x"`} {
		if !strings.Contains(res.stdout, fragment) {
			t.Fatalf("AST dump missing %s:\n%s", fragment, res.stdout)
		}
	}
	res = runCLI(t, "x = )", "-p")
	if res.code != 1 || !strings.Contains(res.stderr, "parse error") {
		t.Fatalf("bad input: exit %d stderr %q", res.code, res.stderr)
	}
}

func TestConfigFlag(t *testing.T) {
	cfgPath := writeSource(t, "alin.yml", "step_limit: 5\ncolor: never\n")
	src := writeSource(t, "loop.alin", "while 1 { }\nprint(\"after\")\n")
	res := runCLI(t, "", "-c", cfgPath, src)
	if res.code != 0 {
		t.Fatalf("exit = %d, stderr %q", res.code, res.stderr)
	}
	if !strings.Contains(res.stderr, "step limit exceeded (5 loop iterations)") {
		t.Fatalf("stderr = %q", res.stderr)
	}
	if !strings.HasSuffix(res.stdout, "after\n") {
		t.Fatalf("stdout = %q", res.stdout)
	}

	bad := writeSource(t, "alin.yml", "colour: never\n")
	res = runCLI(t, "", "-c", bad, src)
	if res.code != 1 || !strings.Contains(res.stderr, "failed to load config") {
		t.Fatalf("bad config: exit %d stderr %q", res.code, res.stderr)
	}
}
