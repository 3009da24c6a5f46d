package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/budget"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

type budgetCmd struct{ rt *Runtime }

func (*budgetCmd) Name() string             { return "budget" }
func (*budgetCmd) Synopsis() string         { return "show budget totals, transactions and goals" }
func (*budgetCmd) Usage() string            { return "paisa budget\n" }
func (*budgetCmd) SetFlags(_ *flag.FlagSet) {}

func (c *budgetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	svc := ws.Budget
	c.rt.printMarkdown(BudgetMarkdown(svc.Totals(), svc.Transactions(), svc.Goals(), c.rt.Currency()))
	return subcommands.ExitSuccess
}

type addTxCmd struct {
	rt       *Runtime
	txType   string
	category string
	amount   string
}

func (*addTxCmd) Name() string     { return "add-tx" }
func (*addTxCmd) Synopsis() string { return "record an income or expense" }
func (*addTxCmd) Usage() string {
	return `paisa add-tx -type Income|Expense -category <category> -amount <n>
`
}

func (c *addTxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.txType, "type", "Expense", "Income or Expense")
	f.StringVar(&c.category, "category", "", "category, e.g. Groceries")
	f.StringVar(&c.amount, "amount", "", "amount")
}

func (c *addTxCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := budget.ParseTransactionType(c.txType)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	req, err := budget.NewTransactionRequest(t, c.category, amount)
	if err != nil {
		return c.rt.usage(err.Error())
	}

	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	tx := ws.Budget.AddTransaction(ctx, req)
	totals := ws.Budget.Totals()
	fmt.Fprintf(c.rt.Out, "Recorded %s %s for %s on %s. Balance: %s\n",
		tx.Type, common.FormatMoney(tx.Amount, c.rt.Currency()), tx.Category, tx.Date,
		common.FormatMoney(totals.Balance, c.rt.Currency()))
	return subcommands.ExitSuccess
}

type addGoalCmd struct {
	rt     *Runtime
	target string
}

func (*addGoalCmd) Name() string     { return "add-goal" }
func (*addGoalCmd) Synopsis() string { return "create a savings goal" }
func (*addGoalCmd) Usage() string {
	return `paisa add-goal -target <n> <name>
`
}

func (c *addGoalCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.target, "target", "", "target amount")
}

func (c *addGoalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	target, err := parseAmount(c.target)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	req, err := budget.NewGoalRequest(f.Arg(0), target)
	if err != nil {
		return c.rt.usage(err.Error())
	}

	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	g := ws.Budget.AddGoal(ctx, req)
	fmt.Fprintf(c.rt.Out, "Created goal %s (%s), target %s\n", g.Name, g.ID, common.FormatMoney(g.TargetAmount, c.rt.Currency()))
	return subcommands.ExitSuccess
}

type contributeCmd struct {
	rt     *Runtime
	amount string
}

func (*contributeCmd) Name() string     { return "contribute" }
func (*contributeCmd) Synopsis() string { return "add money to a savings goal" }
func (*contributeCmd) Usage() string {
	return `paisa contribute -amount <n> <goal-id>

  Contributions are capped at the goal's remaining amount.
`
}

func (c *contributeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "amount to contribute")
}

func (c *contributeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.rt.usage("expected exactly one goal id")
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	contribution, err := budget.NewContribution(amount)
	if err != nil {
		return c.rt.usage(err.Error())
	}

	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	g, ok := ws.Budget.AddContribution(ctx, f.Arg(0), contribution)
	if !ok {
		return c.rt.fail(fmt.Errorf("goal %q not found", f.Arg(0)))
	}
	fmt.Fprintf(c.rt.Out, "%s: %s of %s saved (%d%%)\n", g.Name,
		common.FormatMoney(g.SavedAmount, c.rt.Currency()), common.FormatMoney(g.TargetAmount, c.rt.Currency()), g.Progress())
	return subcommands.ExitSuccess
}

type allocateCmd struct{ rt *Runtime }

func (*allocateCmd) Name() string             { return "allocate" }
func (*allocateCmd) Synopsis() string         { return "spread the unallocated balance across goals" }
func (*allocateCmd) Usage() string            { return "paisa allocate\n" }
func (*allocateCmd) SetFlags(_ *flag.FlagSet) {}

func (c *allocateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	c.rt.printMarkdown(AllocationMarkdown(ws.Budget.AllocateSavings(ctx), c.rt.Currency()))
	return subcommands.ExitSuccess
}
