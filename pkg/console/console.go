// Package console implements the interactive bex prompt.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"gobex/pkg/bex"
	"gobex/pkg/config"
)

const banner = "Bex interactive prompt. Type :help for commands, :quit or Ctrl-D to exit."

const helpText = `Commands:
  :env    show the current bindings
  :help   show this message
  :quit   leave the prompt
Anything else is evaluated as bex source. Input continues on the next
line while parentheses are unbalanced.`

// Prompter is the part of liner.State the prompt loop needs.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Console runs statements typed by the user against one interpreter, so
// definitions persist from one entry to the next.
type Console struct {
	interp *bex.Interpreter
	cfg    config.Console
	out    io.Writer
}

func New(interp *bex.Interpreter, cfg config.Console, out io.Writer) *Console {
	return &Console{interp: interp, cfg: cfg, out: out}
}

// Depth returns the number of "(" in src that are still open.
func Depth(src string) int {
	tokens, _ := bex.Scan(src)
	depth := 0
	for _, t := range tokens {
		switch t.Type {
		case bex.LPAREN:
			depth++
		case bex.RPAREN:
			depth--
		}
	}
	return depth
}

// ReadStatement prompts until the collected lines close every parenthesis.
// ok is false once input is exhausted. Ctrl-C discards the pending lines.
func ReadStatement(p Prompter, prompt, cont string) (src string, ok bool) {
	var b strings.Builder
	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}
		line, err := p.Prompt(current)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if Depth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// Loop reads and evaluates entries until input ends or :quit is entered.
func (c *Console) Loop(p Prompter) {
	fmt.Fprintln(c.out, banner)
	for {
		src, ok := ReadStatement(p, c.cfg.Prompt, c.cfg.ContinuationPrompt)
		if !ok {
			fmt.Fprintln(c.out)
			return
		}
		entry := strings.TrimSpace(src)
		if entry == "" {
			continue
		}

		if strings.HasPrefix(entry, ":") {
			if c.command(entry) {
				return
			}
			continue
		}

		p.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		// Diagnostics have already gone to the interpreter's reporter.
		_ = c.interp.Run(src)
	}
}

// command handles a ":" entry and reports whether the prompt should exit.
func (c *Console) command(entry string) bool {
	switch strings.ToLower(entry) {
	case ":quit", ":q", ":exit":
		return true
	case ":help":
		fmt.Fprintln(c.out, helpText)
	case ":env":
		fmt.Fprint(c.out, c.interp.Environment())
	default:
		fmt.Fprintf(c.out, "unknown command %s. Type :help for a list.\n", entry)
	}
	return false
}

// HistoryPath resolves the configured history file. Relative names are
// placed in the user's home directory; an empty name disables history.
func HistoryPath(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, name)
}

// Run starts the terminal prompt with line editing and history.
func (c *Console) Run() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := HistoryPath(c.cfg.HistoryFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	c.Loop(ln)
	return nil
}
