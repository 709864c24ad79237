//go:build !js

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"gobex/pkg/bex"
	"gobex/pkg/config"
	"gobex/pkg/console"
	"gobex/pkg/report"
	"gobex/pkg/utils"
)

// Exit codes follow sysexits.h.
const (
	exitUsage         = 64
	exitStaticErrors  = 65
	exitRuntimeErrors = 70
)

const usageLine = "Usage: bex [options] [script.bx]"

var (
	debugFlag = cli.BoolFlag{
		Name:  "debug, d",
		Usage: "Use debug output (token and parse streams)",
	}
	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	noColorFlag = cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored diagnostics",
	}

	runCommand = cli.Command{
		Action:      runScript,
		Name:        "run",
		Usage:       "Run a .bx script",
		ArgsUsage:   "<script.bx>",
		Flags:       []cli.Flag{debugFlag},
		Description: `The run command scans, parses and evaluates one script.`,
	}
	replCommand = cli.Command{
		Action:      runRepl,
		Name:        "repl",
		Usage:       "Start the interactive prompt",
		Flags:       []cli.Flag{debugFlag},
		Description: `The repl command reads statements from the terminal and evaluates them as they are completed.`,
	}
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Description: `The dumpconfig command shows configuration values.`,
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "bex"
	app.Usage = "Bex is a Boolean expression interpreter"
	app.UsageText = "bex [options] [script.bx]\n   bex command [command options] [arguments...]"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{debugFlag, configFileFlag, noColorFlag}
	app.Commands = []cli.Command{runCommand, replCommand, dumpConfigCommand}
	app.Action = defaultAction
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultAction runs the script if one is named, otherwise it starts
// the prompt.
func defaultAction(ctx *cli.Context) error {
	script, err := utils.ResolveScript(ctx.Args())
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error: %v\n%s", err, usageLine), exitUsage)
	}
	if script == "" {
		return runRepl(ctx)
	}
	return runFile(ctx, script)
}

func runScript(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.NewExitError("run expects exactly one script\n"+usageLine, exitUsage)
	}
	script, err := utils.ResolveScript(ctx.Args())
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error: %v\n%s", err, usageLine), exitUsage)
	}
	return runFile(ctx, script)
}

func runFile(ctx *cli.Context, script string) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	src, err := utils.ReadScript(script)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error: %v", err), 1)
	}
	return exitError(newInterpreter(cfg).Run(src))
}

func runRepl(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	return console.New(newInterpreter(cfg), cfg.Console, os.Stdout).Run()
}

// dumpConfig is the dumpconfig command.
func dumpConfig(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}

	dump := os.Stdout
	if ctx.NArg() > 0 {
		dump, err = os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer dump.Close()
	}
	return config.Dump(dump, &cfg)
}

// flagBool reads a flag whether it was given before or after the command name.
func flagBool(ctx *cli.Context, name string) bool {
	return ctx.Bool(name) || ctx.GlobalBool(name)
}

func flagString(ctx *cli.Context, name string) string {
	if s := ctx.String(name); s != "" {
		return s
	}
	return ctx.GlobalString(name)
}

// makeConfig loads the configuration file and applies the command-line flags.
func makeConfig(ctx *cli.Context) (config.Config, error) {
	cfg, err := config.LoadOrDefault(flagString(ctx, configFileFlag.Name))
	if err != nil {
		return config.Config{}, cli.NewExitError(err.Error(), 1)
	}
	if flagBool(ctx, "debug") {
		cfg.Interpreter.Debug = true
	}
	if flagBool(ctx, noColorFlag.Name) {
		cfg.Terminal.Color = "never"
	}
	return cfg, nil
}

func newInterpreter(cfg config.Config) *bex.Interpreter {
	return bex.NewInterpreter(bex.Options{
		Out:          os.Stdout,
		Reporter:     report.NewTerminal(os.Stderr, cfg.Terminal.Color),
		Debug:        cfg.Interpreter.Debug,
		MaxCallDepth: cfg.Interpreter.MaxCallDepth,
	})
}

// exitError maps a Run result onto the process exit code. Diagnostics have
// already been printed, so the exit error carries no message.
func exitError(err error) error {
	if err == nil {
		return nil
	}
	var rerr *bex.RuntimeError
	switch {
	case errors.As(err, &rerr):
		return cli.NewExitError("", exitRuntimeErrors)
	case errors.Is(err, bex.ErrStaticErrors):
		return cli.NewExitError("", exitStaticErrors)
	}
	return cli.NewExitError(err.Error(), 1)
}
