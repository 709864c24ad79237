package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gobex/pkg/bex"
	"gobex/pkg/report"
	"gobex/pkg/utils"
)

// TestPrograms runs every testdata/*.bx script through the whole pipeline and
// compares stdout with the .out file and diagnostics with the .err file.
// A missing .err file means no diagnostics are expected.
func TestPrograms(t *testing.T) {
	scripts, err := filepath.Glob(filepath.Join("testdata", "*"+utils.ScriptExt))
	if err != nil {
		t.Fatal(err)
	}
	if len(scripts) == 0 {
		t.Fatal("no test programs found")
	}

	for _, script := range scripts {
		name := strings.TrimSuffix(filepath.Base(script), utils.ScriptExt)
		t.Run(name, func(t *testing.T) {
			src, err := utils.ReadScript(script)
			if err != nil {
				t.Fatalf("Failed to read source: %v", err)
			}
			wantOut := readGolden(t, strings.TrimSuffix(script, utils.ScriptExt)+".out")
			wantErr := readGolden(t, strings.TrimSuffix(script, utils.ScriptExt)+".err")

			var out, diags bytes.Buffer
			in := bex.NewInterpreter(bex.Options{
				Out:      &out,
				Reporter: report.NewTerminalWriter(&diags, false),
			})
			runErr := in.Run(src)

			if diff := cmp.Diff(wantOut, out.String()); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(wantErr, diags.String()); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}

			var rerr *bex.RuntimeError
			hasRuntime := errors.As(runErr, &rerr)
			if hasRuntime != strings.Contains(wantErr, "Runtime Error") {
				t.Errorf("unexpected Run result: %v", runErr)
			}
			if errors.Is(runErr, bex.ErrStaticErrors) != strings.Contains(wantErr, "] Error") {
				t.Errorf("unexpected Run result: %v", runErr)
			}
		})
	}
}

func readGolden(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// TestLineByLineMatchesWholeFile feeds a script one line at a time into one
// interpreter, the way the prompt does, and expects the same output.
func TestLineByLineMatchesWholeFile(t *testing.T) {
	src, err := utils.ReadScript(filepath.Join("testdata", "vectors.bx"))
	if err != nil {
		t.Fatal(err)
	}

	var whole bytes.Buffer
	if err := bex.NewInterpreter(bex.Options{Out: &whole}).Run(src); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var lines bytes.Buffer
	in := bex.NewInterpreter(bex.Options{Out: &lines})
	for _, line := range strings.Split(src, "\n") {
		if err := in.Run(line); err != nil {
			t.Fatalf("Run(%q): %v", line, err)
		}
	}

	if diff := cmp.Diff(whole.String(), lines.String()); diff != "" {
		t.Errorf("line-by-line output differs (-whole +lines):\n%s", diff)
	}
}
