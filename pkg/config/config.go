package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Interpreter holds the evaluation settings.
type Interpreter struct {
	Debug        bool // dump token and parse streams before evaluating
	MaxCallDepth int  // nested circuit call limit
}

// Terminal controls diagnostic rendering.
type Terminal struct {
	Color string // "auto", "always" or "never"
}

// Console configures the interactive prompt.
type Console struct {
	Prompt             string
	ContinuationPrompt string
	HistoryFile        string `toml:",omitempty"` // relative paths are taken from the home directory
}

// Desktop configures the LED panel window.
type Desktop struct {
	Width   int
	Height  int
	Columns int // LEDs per row before a value wraps
	Title   string
}

// Config is the full bex configuration file.
type Config struct {
	Interpreter Interpreter
	Terminal    Terminal
	Console     Console
	Desktop     Desktop
}

// Defaults are used for anything the configuration file leaves out.
var Defaults = Config{
	Interpreter: Interpreter{
		MaxCallDepth: 1024,
	},
	Terminal: Terminal{
		Color: "auto",
	},
	Console: Console{
		Prompt:             ">> ",
		ContinuationPrompt: ".. ",
		HistoryFile:        ".bex_history",
	},
	Desktop: Desktop{
		Width:   640,
		Height:  480,
		Columns: 16,
		Title:   "Bex LED Panel",
	},
}

// Load reads file on top of the values already in cfg.
func Load(file string, cfg *Config) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Decode(bufio.NewReader(f), cfg); err != nil {
		// Line errors only carry the line number.
		return errors.New(file + ", " + err.Error())
	}
	return nil
}

// Decode reads TOML from r into cfg and checks the result.
func Decode(r io.Reader, cfg *Config) error {
	if err := tomlSettings.NewDecoder(r).Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate rejects settings the interpreter cannot work with.
func (c *Config) Validate() error {
	switch c.Terminal.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid Terminal.Color %q (want auto, always or never)", c.Terminal.Color)
	}
	if c.Interpreter.MaxCallDepth <= 0 {
		return fmt.Errorf("Interpreter.MaxCallDepth must be positive, got %d", c.Interpreter.MaxCallDepth)
	}
	if c.Desktop.Columns <= 0 {
		return fmt.Errorf("Desktop.Columns must be positive, got %d", c.Desktop.Columns)
	}
	return nil
}

// LoadOrDefault returns Defaults, overlaid with file when it is not empty.
func LoadOrDefault(file string) (Config, error) {
	cfg := Defaults
	if file == "" {
		return cfg, nil
	}
	if err := Load(file, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Dump writes cfg as TOML.
func Dump(w io.Writer, cfg *Config) error {
	out, err := tomlSettings.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
