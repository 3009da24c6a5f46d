package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/bobmcallan/paisa-buddy/internal/models"
	"github.com/bobmcallan/paisa-buddy/internal/payment"
	"github.com/bobmcallan/paisa-buddy/internal/portfolio"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type portfolioCmd struct {
	rt      *Runtime
	refresh bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show holdings, allocation and virtual cash" }
func (*portfolioCmd) Usage() string {
	return `paisa portfolio [-refresh]

  Prints the portfolio summary, allocation by asset type and held positions.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.refresh, "refresh", false, "update prices from the quote feed first")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	if c.refresh {
		n := ws.Portfolio.RefreshPrices(ctx, c.rt.app.Feed)
		fmt.Fprintf(c.rt.Err, "Updated %d prices\n", n)
	}
	svc := ws.Portfolio
	c.rt.printMarkdown(PortfolioMarkdown(svc.Summary(), svc.Allocation(), svc.Held(), c.rt.Currency()))
	return subcommands.ExitSuccess
}

type tradeCmd struct {
	rt       *Runtime
	action   string
	quantity int64
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "buy or sell units of a tracked asset" }
func (*tradeCmd) Usage() string {
	return `paisa trade [-a buy|sell] -q <quantity> <ticker>

  Buys or sells whole units at the asset's current price using virtual cash.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.action, "a", "buy", "buy or sell")
	f.Int64Var(&c.quantity, "q", 0, "number of units")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.rt.usage("expected exactly one ticker")
	}
	action, err := portfolio.ParseAction(c.action)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	order, err := portfolio.NewTradeOrder(f.Arg(0), c.quantity, action)
	if err != nil {
		return c.rt.usage(err.Error())
	}

	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	result := ws.Portfolio.Trade(ctx, order)
	c.rt.printMarkdown(TradeMarkdown(result, c.rt.Currency()))
	if !result.Accepted {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type addAssetCmd struct {
	rt        *Runtime
	search    bool
	assetType string
}

func (*addAssetCmd) Name() string     { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "track a listed stock or mutual fund" }
func (*addAssetCmd) Usage() string {
	return `paisa add-asset <ticker>
paisa add-asset -search [-type Stock|"Mutual Fund"] [term]

  Adds a listed asset to the portfolio with zero units, or searches the listings.
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.search, "search", false, "search the listings instead of adding")
	f.StringVar(&c.assetType, "type", "", "restrict search to an asset type")
}

func (c *addAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := c.rt.App(ctx)
	if err != nil {
		return c.rt.fail(err)
	}

	if c.search {
		t := models.AssetType(c.assetType)
		if t != "" && !t.Valid() {
			return c.rt.usage(fmt.Sprintf("unknown asset type %q", c.assetType))
		}
		c.rt.printMarkdown(ListingsMarkdown(a.Catalog.Search(f.Arg(0), t), c.rt.Currency()))
		return subcommands.ExitSuccess
	}

	if f.NArg() != 1 {
		return c.rt.usage("expected exactly one ticker")
	}
	listing, ok := a.Catalog.Lookup(f.Arg(0))
	if !ok {
		return c.rt.fail(fmt.Errorf("asset %q is not listed, try -search", f.Arg(0)))
	}
	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	pos, added, err := ws.Portfolio.AddAsset(ctx, portfolio.NewAsset{
		Ticker: listing.Ticker,
		Name:   listing.Name,
		Type:   listing.Type,
		Sector: listing.Sector,
		Price:  listing.Price,
	})
	if err != nil {
		return c.rt.fail(err)
	}
	if added {
		fmt.Fprintf(c.rt.Out, "Now tracking %s (%s)\n", pos.Ticker, pos.Name)
	} else {
		fmt.Fprintf(c.rt.Out, "%s is already in your portfolio\n", pos.Ticker)
	}
	return subcommands.ExitSuccess
}

type addCashCmd struct {
	rt      *Runtime
	amount  string
	method  string
	details payment.Details
}

func (*addCashCmd) Name() string     { return "add-cash" }
func (*addCashCmd) Synopsis() string { return "top up virtual cash with a mock card or UPI payment" }
func (*addCashCmd) Usage() string {
	return `paisa add-cash -amount <n> -method card -card <number> -expiry <MM/YY> -cvv <cvv> -otp <otp>
paisa add-cash -amount <n> -method upi -utr <utr>

  No real payment is made; the details are only checked for shape.
`
}

func (c *addCashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "amount to add")
	f.StringVar(&c.method, "method", "upi", "card or upi")
	f.StringVar(&c.details.CardNumber, "card", "", "card number")
	f.StringVar(&c.details.Expiry, "expiry", "", "card expiry")
	f.StringVar(&c.details.CVV, "cvv", "", "card CVV")
	f.StringVar(&c.details.OTP, "otp", "", "one-time password")
	f.StringVar(&c.details.UTR, "utr", "", "UPI transaction reference")
}

func (c *addCashCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		return c.rt.usage(payment.ErrInvalidAmount.Error())
	}
	method, err := payment.ParseMethod(c.method)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	req, err := payment.NewCashRequest(amount, method, c.details)
	if err != nil {
		return c.rt.usage(err.Error())
	}
	deposit, err := req.Deposit()
	if err != nil {
		return c.rt.usage(err.Error())
	}

	ws, err := c.rt.Workspace(ctx)
	if err != nil {
		return c.rt.fail(err)
	}
	ws.Portfolio.AddCash(ctx, deposit)
	fmt.Fprintln(c.rt.Out, req.Receipt(c.rt.Currency()))
	return subcommands.ExitSuccess
}
