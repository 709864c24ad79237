package console

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"

	"gobex/pkg/bex"
	"gobex/pkg/config"
	"gobex/pkg/report"
)

// scripted replays fixed input lines and records the prompts shown.
type scripted struct {
	lines   []string
	errs    map[int]error
	prompts []string
	history []string
}

func (s *scripted) Prompt(prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if i >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[i], nil
}

func (s *scripted) AppendHistory(item string) { s.history = append(s.history, item) }

func TestDepth(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"", 0},
		{"(print 1)", 0},
		{"(circuit f (x)", 1},
		{"(print (and a", 2},
		{"(print 1))", -1},
	}
	for _, tc := range tests {
		if got := Depth(tc.src); got != tc.want {
			t.Errorf("Depth(%q) = %d; want %d", tc.src, got, tc.want)
		}
	}
}

func TestReadStatementContinues(t *testing.T) {
	p := &scripted{lines: []string{"(circuit inc (x)", "  (not x))", "(print 1)"}}

	src, ok := ReadStatement(p, ">> ", ".. ")
	assert.True(t, ok)
	assert.Equal(t, "(circuit inc (x)\n  (not x))", src)
	assert.Equal(t, []string{">> ", ".. "}, p.prompts)

	src, ok = ReadStatement(p, ">> ", ".. ")
	assert.True(t, ok)
	assert.Equal(t, "(print 1)", src)

	_, ok = ReadStatement(p, ">> ", ".. ")
	assert.False(t, ok)
}

func TestReadStatementAbort(t *testing.T) {
	p := &scripted{
		lines: []string{"(print", "", "(print 0)"},
		errs:  map[int]error{1: liner.ErrPromptAborted},
	}
	src, ok := ReadStatement(p, ">> ", ".. ")
	assert.True(t, ok)
	assert.Equal(t, "", src, "Ctrl-C drops the pending lines")

	src, ok = ReadStatement(p, ">> ", ".. ")
	assert.True(t, ok)
	assert.Equal(t, "(print 0)", src)
}

func TestLoop(t *testing.T) {
	var out bytes.Buffer
	var diags report.Collector
	interp := bex.NewInterpreter(bex.Options{Out: &out, Reporter: &diags})
	c := New(interp, config.Defaults.Console, &out)

	p := &scripted{lines: []string{
		"(bit a 1)",
		"(circuit inv (x)",
		"  (not x))",
		"",
		"(print (inv a))",
		"(print b)",
		":env",
		":quit",
		"(print 1)",
	}}
	c.Loop(p)

	assert.Contains(t, out.String(), "false\n")
	assert.Contains(t, out.String(), "circuit inv")
	assert.Len(t, p.prompts, 8, "nothing is read after :quit")
	assert.Len(t, diags.Diags, 1)
	assert.Equal(t, []string{"(bit a 1)", "(circuit inv (x)   (not x))", "(print (inv a))", "(print b)"}, p.history)
}

func TestLoopUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	c := New(bex.NewInterpreter(bex.Options{Out: &out}), config.Defaults.Console, &out)
	c.Loop(&scripted{lines: []string{":frobnicate"}})
	assert.Contains(t, out.String(), "unknown command :frobnicate")
}

func TestHistoryPath(t *testing.T) {
	assert.Equal(t, "", HistoryPath(""))
	abs := filepath.Join(t.TempDir(), "hist")
	assert.Equal(t, abs, HistoryPath(abs))
	if _, err := os.UserHomeDir(); err == nil {
		assert.True(t, filepath.IsAbs(HistoryPath(".bex_history")))
	}
}
