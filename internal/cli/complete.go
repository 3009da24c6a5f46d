package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/payment"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/bobmcallan/paisa-buddy/internal/seed"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/install"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the command tree for shell completion. Flags are read
// from each command's SetFlags so the two cannot drift apart.
func Completion(rt *Runtime) *complete.Command {
	tickers := predict.Set{}
	for _, l := range seed.Listings() {
		tickers = append(tickers, l.Ticker)
	}
	modules := predict.Set{}
	for _, m := range seed.Modules() {
		modules = append(modules, m.ID)
	}

	flagValues := map[string]complete.Predictor{
		"a":      predict.Set{string(portfolio.Buy), string(portfolio.Sell)},
		"method": predict.Set{string(payment.Card), string(payment.UPI)},
		"type":   predict.Set{string(models.Income), string(models.Expense), string(models.AssetStock), string(models.AssetMutualFund)},
	}
	args := map[string]complete.Predictor{
		"trade":     tickers,
		"add-asset": tickers,
		"modules":   modules,
		"quiz":      modules,
	}

	root := &complete.Command{
		Sub: map[string]*complete.Command{
			"help":     {Args: predict.Nothing},
			"flags":    {Args: predict.Nothing},
			"commands": {Args: predict.Nothing},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"c":      predict.Files("*.toml"),
			"user":   predict.Something,
			"plain":  predict.Nothing,
		},
	}

	for _, e := range commands(rt) {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)

		sub := &complete.Command{Flags: map[string]complete.Predictor{}, Args: args[e.cmd.Name()]}
		fs.VisitAll(func(f *flag.Flag) {
			if p, ok := flagValues[f.Name]; ok {
				sub.Flags[f.Name] = p
				return
			}
			if isBool(f) {
				sub.Flags[f.Name] = predict.Nothing
			} else {
				sub.Flags[f.Name] = predict.Something
			}
		})
		root.Sub[e.cmd.Name()] = sub
	}
	return root
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

type completeCmd struct {
	rt        *Runtime
	uninstall bool
}

func (*completeCmd) Name() string     { return "complete" }
func (*completeCmd) Synopsis() string { return "install shell completion for paisa" }
func (*completeCmd) Usage() string {
	return `paisa complete [-u]

  Installs (or with -u removes) completion for bash, zsh and fish.
`
}

func (c *completeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.uninstall, "u", false, "uninstall completion")
}

func (c *completeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.uninstall {
		if err := install.Uninstall("paisa"); err != nil {
			return c.rt.fail(err)
		}
		fmt.Fprintln(c.rt.Out, "Shell completion removed")
		return subcommands.ExitSuccess
	}
	if err := install.Install("paisa"); err != nil {
		return c.rt.fail(err)
	}
	fmt.Fprintln(c.rt.Out, "Shell completion installed, restart your shell to use it")
	return subcommands.ExitSuccess
}
