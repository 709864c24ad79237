package main

import (
	"bytes"

	"gobex/pkg/bex"
	"gobex/pkg/config"
	"gobex/pkg/report"
	"gobex/pkg/utils"
)

// Row is one printed value, shown as a strip of LEDs.
type Row struct {
	Line  int
	Value bex.Value
}

// Panel runs a script and keeps what it printed for drawing.
type Panel struct {
	path   string
	cfg    config.Config
	Rows   []Row
	Diags  report.Collector
	Output bytes.Buffer
}

func NewPanel(path string, cfg config.Config) *Panel {
	return &Panel{path: path, cfg: cfg}
}

// Load evaluates src from scratch, replacing the previous rows.
func (p *Panel) Load(src string) {
	p.Rows = nil
	p.Diags.Reset()
	p.Output.Reset()

	in := bex.NewInterpreter(bex.Options{
		Out:          &p.Output,
		Reporter:     &p.Diags,
		MaxCallDepth: p.cfg.Interpreter.MaxCallDepth,
		OnPrint: func(line int, v bex.Value) {
			p.Rows = append(p.Rows, Row{Line: line, Value: v})
		},
	})
	// Errors are kept in p.Diags for display.
	_ = in.Run(src)
}

// Reload reads the script again and re-runs it.
func (p *Panel) Reload() error {
	src, err := utils.ReadScript(p.path)
	if err != nil {
		return err
	}
	p.Load(src)
	return nil
}
