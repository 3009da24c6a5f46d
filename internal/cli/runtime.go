// Package cli implements the paisa command line tool. Commands operate on the
// same ledgers as the HTTP server, so a workspace edited here shows up in the
// app and vice versa (the badger store allows a single process at a time).
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/app"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/config"
	"github.com/bobmcallan/paisa-buddy/internal/ledgers"
	"github.com/google/subcommands"
)

// configPaths is a flag type that allows multiple -config flags.
type configPaths []string

func (c *configPaths) String() string { return strings.Join(*c, ",") }

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// Runtime carries the global flags and the lazily opened application shared
// by every command.
type Runtime struct {
	Out io.Writer
	Err io.Writer
	In  io.Reader

	configFiles configPaths
	uid         string
	plain       bool

	app *app.App
}

// NewRuntime returns a runtime bound to the process's standard streams.
func NewRuntime() *Runtime {
	return &Runtime{Out: os.Stdout, Err: os.Stderr, In: os.Stdin}
}

// SetFlags registers the global flags.
func (rt *Runtime) SetFlags(f *flag.FlagSet) {
	f.Var(&rt.configFiles, "config", "Configuration file path (can be specified multiple times)")
	f.Var(&rt.configFiles, "c", "Configuration file path (shorthand)")
	f.StringVar(&rt.uid, "user", "", "Workspace to act on (defaults to auth.dev_user)")
	f.BoolVar(&rt.plain, "plain", false, "Print raw markdown instead of styled terminal output")
}

// UseApp installs an already initialized application.
func (rt *Runtime) UseApp(a *app.App, uid string) {
	rt.app = a
	rt.uid = uid
}

// App opens the application on first use.
func (rt *Runtime) App(ctx context.Context) (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}

	files := rt.configFiles
	if len(files) == 0 {
		for _, path := range []string{"paisa-buddy.toml", "config/paisa-buddy.toml"} {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}
	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return nil, err
	}

	// Commands print reports on stdout; keep the log quiet unless asked.
	logCfg := cfg.Logging
	if os.Getenv("PAISA_LOG_LEVEL") == "" {
		logCfg.Level = "error"
	}
	a, err := app.New(ctx, cfg, common.NewLoggerFromConfig(logCfg))
	if err != nil {
		return nil, err
	}
	if rt.uid == "" {
		rt.uid = cfg.Auth.DevUser
	}
	rt.app = a
	return a, nil
}

// Workspace returns the acting user's services.
func (rt *Runtime) Workspace(ctx context.Context) (*ledgers.Workspace, error) {
	a, err := rt.App(ctx)
	if err != nil {
		return nil, err
	}
	if rt.uid == "" {
		return nil, fmt.Errorf("no workspace selected: pass -user or set auth.dev_user")
	}
	return a.Ledgers.Workspace(ctx, rt.uid), nil
}

// Currency is the configured ledger currency.
func (rt *Runtime) Currency() string {
	if rt.app == nil {
		return common.DefaultCurrency
	}
	return rt.app.Config.Ledger.Currency
}

// Close releases the application's storage.
func (rt *Runtime) Close() error {
	if rt.app == nil {
		return nil
	}
	return rt.app.Close()
}

// fail prints err and returns the failure status.
func (rt *Runtime) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(rt.Err, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// usage prints msg and returns the usage status.
func (rt *Runtime) usage(msg string) subcommands.ExitStatus {
	fmt.Fprintf(rt.Err, "Error: %s\n", msg)
	return subcommands.ExitUsageError
}

type entry struct {
	cmd   subcommands.Command
	group string
}

func commands(rt *Runtime) []entry {
	return []entry{
		{&portfolioCmd{rt: rt}, "portfolio"},
		{&tradeCmd{rt: rt}, "portfolio"},
		{&addAssetCmd{rt: rt}, "portfolio"},
		{&addCashCmd{rt: rt}, "portfolio"},

		{&budgetCmd{rt: rt}, "budget"},
		{&addTxCmd{rt: rt}, "budget"},
		{&addGoalCmd{rt: rt}, "budget"},
		{&contributeCmd{rt: rt}, "budget"},
		{&allocateCmd{rt: rt}, "budget"},

		{&modulesCmd{rt: rt}, "learning"},
		{&quizCmd{rt: rt}, "learning"},
		{&explainCmd{rt: rt}, "learning"},

		{&completeCmd{rt: rt}, ""},
	}
}

// Register adds every command to c.
func Register(c *subcommands.Commander, rt *Runtime) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	for _, e := range commands(rt) {
		c.Register(e.cmd, e.group)
	}
}
