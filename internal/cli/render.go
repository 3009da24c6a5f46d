package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bobmcallan/paisa-buddy/internal/budget"
	"github.com/bobmcallan/paisa-buddy/internal/common"
	"github.com/bobmcallan/paisa-buddy/internal/content"
	"github.com/bobmcallan/paisa-buddy/internal/learning"
	"github.com/bobmcallan/paisa-buddy/internal/market"
	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/charmbracelet/glamour"
)

const wordWrap = 100

// printMarkdown renders md for the terminal, or writes it verbatim in plain mode.
func (rt *Runtime) printMarkdown(md string) {
	if rt.plain {
		io.WriteString(rt.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
	if err != nil {
		io.WriteString(rt.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		io.WriteString(rt.Out, md)
		return
	}
	io.WriteString(rt.Out, out)
}

// table writes a markdown table. align holds one "l" or "r" per column.
func table(b *strings.Builder, header []string, align string, rows [][]string) {
	b.WriteString("| " + strings.Join(header, " | ") + " |\n|")
	for _, a := range align {
		if a == 'r' {
			b.WriteString("---:|")
		} else {
			b.WriteString(":---|")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", "\\|")
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

// PortfolioMarkdown reports the summary, allocation and held positions.
func PortfolioMarkdown(s portfolio.Summary, alloc []portfolio.AllocationSlice, positions []models.Position, currency string) string {
	var b strings.Builder
	b.WriteString("# Portfolio\n\n")
	table(&b, []string{"", "Amount"}, "lr", [][]string{
		{"Portfolio value", common.FormatMoney(s.TotalValue, currency)},
		{"Invested", common.FormatMoney(s.TotalInvestment, currency)},
		{"Gain/Loss", fmt.Sprintf("%s (%s)", common.FormatSignedMoney(s.TotalGainLoss, currency), common.FormatSignedPct(s.TotalGainLossPct))},
		{"Virtual cash", common.FormatMoney(s.Cash, currency)},
		{"Net worth", common.FormatMoney(s.NetWorth, currency)},
	})

	if len(alloc) > 0 {
		b.WriteString("## Allocation\n\n")
		rows := make([][]string, 0, len(alloc))
		for _, a := range alloc {
			rows = append(rows, []string{string(a.Type), common.FormatMoney(a.Value, currency)})
		}
		table(&b, []string{"Type", "Value"}, "lr", rows)
	}

	b.WriteString("## Holdings\n\n")
	if len(positions) == 0 {
		b.WriteString("No holdings yet. Use `paisa trade` to buy your first asset.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(positions))
	for _, p := range positions {
		gain := p.Value().Sub(p.Invested())
		rows = append(rows, []string{
			p.Ticker,
			p.Name,
			fmt.Sprintf("%d", p.Quantity),
			common.FormatMoney(p.AveragePrice, currency),
			common.FormatMoney(p.CurrentPrice, currency),
			common.FormatMoney(p.Value(), currency),
			common.FormatSignedMoney(gain, currency),
		})
	}
	table(&b, []string{"Ticker", "Name", "Qty", "Avg", "Price", "Value", "P&L"}, "llrrrrr", rows)
	return b.String()
}

// TradeMarkdown reports an accepted or rejected trade.
func TradeMarkdown(r portfolio.TradeResult, currency string) string {
	var b strings.Builder
	if !r.Accepted {
		fmt.Fprintf(&b, "# Trade rejected\n\n%s\n", r.Message)
		return b.String()
	}
	verb := "Bought"
	if r.Action == portfolio.Sell {
		verb = "Sold"
	}
	fmt.Fprintf(&b, "# %s %d × %s\n\n", verb, r.Quantity, r.Position.Ticker)
	table(&b, []string{"", "Amount"}, "lr", [][]string{
		{"Amount", common.FormatMoney(r.Amount, currency)},
		{"Units held", fmt.Sprintf("%d", r.Position.Quantity)},
		{"Virtual cash", common.FormatMoney(r.Cash, currency)},
	})
	return b.String()
}

// ListingsMarkdown reports catalog search results.
func ListingsMarkdown(listings []market.Listing, currency string) string {
	var b strings.Builder
	b.WriteString("# Assets\n\n")
	if len(listings) == 0 {
		b.WriteString("No assets match.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Ticker, l.Name, string(l.Type), l.Sector, common.FormatMoney(l.Price, currency), common.FormatSignedPct(l.Change)})
	}
	table(&b, []string{"Ticker", "Name", "Type", "Sector", "Price", "Change"}, "llllrr", rows)
	return b.String()
}

// BudgetMarkdown reports totals, transactions and goals.
func BudgetMarkdown(t budget.Totals, txs []models.Transaction, goals []models.Goal, currency string) string {
	var b strings.Builder
	b.WriteString("# Budget\n\n")
	table(&b, []string{"", "Amount"}, "lr", [][]string{
		{"Income", common.FormatMoney(t.Income, currency)},
		{"Expenses", common.FormatMoney(t.Expense, currency)},
		{"Balance", common.FormatMoney(t.Balance, currency)},
		{"Saved in goals", common.FormatMoney(t.Saved, currency)},
		{"Unallocated", common.FormatMoney(t.Unallocated, currency)},
	})

	b.WriteString("## Transactions\n\n")
	if len(txs) == 0 {
		b.WriteString("No transactions yet.\n\n")
	} else {
		rows := make([][]string, 0, len(txs))
		for _, tx := range txs {
			amount := common.FormatMoney(tx.Amount, currency)
			if tx.Type == models.Expense {
				amount = "-" + amount
			}
			rows = append(rows, []string{tx.Date, string(tx.Type), tx.Category, amount})
		}
		table(&b, []string{"Date", "Type", "Category", "Amount"}, "lllr", rows)
	}

	b.WriteString("## Goals\n\n")
	if len(goals) == 0 {
		b.WriteString("No savings goals yet.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		rows = append(rows, []string{
			g.ID,
			g.Name,
			common.FormatMoney(g.SavedAmount, currency),
			common.FormatMoney(g.TargetAmount, currency),
			fmt.Sprintf("%d%%", g.Progress()),
		})
	}
	table(&b, []string{"ID", "Goal", "Saved", "Target", "Progress"}, "llrrr", rows)
	return b.String()
}

// AllocationMarkdown reports an allocate-savings run.
func AllocationMarkdown(r budget.AllocationResult, currency string) string {
	var b strings.Builder
	b.WriteString("# Savings allocated\n\n")
	if len(r.Allocations) == 0 {
		b.WriteString("Nothing to allocate: no unallocated balance or every goal is full.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(r.Allocations))
	for _, a := range r.Allocations {
		rows = append(rows, []string{a.Name, common.FormatMoney(a.Amount, currency)})
	}
	table(&b, []string{"Goal", "Amount"}, "lr", rows)
	fmt.Fprintf(&b, "**Total:** %s\n", common.FormatMoney(r.Total, currency))
	return b.String()
}

// ModulesMarkdown lists the learning modules with their status.
func ModulesMarkdown(modules []models.Module, s learning.Summary) string {
	var b strings.Builder
	b.WriteString("# Learning\n\n")
	fmt.Fprintf(&b, "%d of %d modules completed, average progress %d%%.\n\n", s.Completed, s.Total, s.AverageProgress)
	rows := make([][]string, 0, len(modules))
	for _, m := range modules {
		rows = append(rows, []string{m.ID, m.Title, fmt.Sprintf("%d%%", m.Progress), m.Status()})
	}
	table(&b, []string{"ID", "Module", "Progress", "Status"}, "llrl", rows)
	return b.String()
}

// ModuleMarkdown prints a module's lessons.
func ModuleMarkdown(m models.Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", m.Title, m.Description)
	for _, l := range m.Lessons {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", l.Title, l.Content)
	}
	return b.String()
}

// ResultMarkdown reports a submitted quiz.
func ResultMarkdown(m models.Module, r learning.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %d/%d correct\n\n", m.Title, r.Score.Correct, r.Score.Total)
	table(&b, []string{"", "Progress"}, "lr", [][]string{
		{"This attempt", fmt.Sprintf("%d%%", r.Attempt)},
		{"Recorded", fmt.Sprintf("%d%%", r.Progress)},
	})
	fmt.Fprintf(&b, "Status: **%s**\n", r.Status)
	return b.String()
}

// ContentMarkdown prints generated examples for a concept.
func ContentMarkdown(concept string, c content.Content) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n## Example\n\n%s\n\n## Try this\n\n%s\n", concept, c.Example, c.Scenario)
	return b.String()
}
