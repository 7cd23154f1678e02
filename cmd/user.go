package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/view"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type marketCmd struct{}

func (*marketCmd) Name() string     { return "market" }
func (*marketCmd) Synopsis() string { return "list the stocks available to trade" }
func (*marketCmd) Usage() string {
	return `sb market

  Lists the stocks with their current price.
`
}

func (*marketCmd) SetFlags(f *flag.FlagSet) {}

func (*marketCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return a.showMarket(ctx)
}

type portfolioCmd struct{}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show holdings and profit" }
func (*portfolioCmd) Usage() string {
	return `sb portfolio

  Shows the active holdings of the logged in user, with realized, unrealized
  and total profit, and the total profit over all holdings.
`
}

func (*portfolioCmd) SetFlags(f *flag.FlagSet) {}

func (*portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return a.showPortfolio(ctx)
}

type tradesCmd struct{}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "show the trade history" }
func (*tradesCmd) Usage() string {
	return `sb trades

  Lists the trades of the logged in user.
`
}

func (*tradesCmd) SetFlags(f *flag.FlagSet) {}

func (*tradesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return a.showTrades(ctx)
}

// orderCmd places buy and sell orders.
type orderCmd struct {
	kind  string // stocksboard.Buy or stocksboard.Sell
	price string
}

func (c *orderCmd) Name() string {
	if c.kind == stocksboard.Sell {
		return "sell"
	}
	return "buy"
}

func (c *orderCmd) Synopsis() string { return c.Name() + " shares of a stock" }
func (c *orderCmd) Usage() string {
	return fmt.Sprintf(`sb %s [-price <price>] <symbol> <quantity>

  Places a %s order for <quantity> shares of <symbol>. The price defaults to
  the current stock price.
`, c.Name(), c.kind)
}

func (c *orderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "price per share (default: the current stock price)")
}

func (c *orderCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(stderr, "Error: <symbol> and <quantity> are required.")
		return subcommands.ExitUsageError
	}
	qty, err := strconv.ParseInt(f.Arg(1), 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid quantity %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	req := stocksboard.TradeRequest{Symbol: strings.ToUpper(f.Arg(0)), Quantity: qty}

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	s, ok := a.requireSession(ctx)
	if !ok {
		return subcommands.ExitFailure
	}

	if c.price != "" {
		if req.Price, err = decimal.NewFromString(c.price); err != nil {
			fmt.Fprintf(stderr, "Error: invalid price %q\n", c.price)
			return subcommands.ExitUsageError
		}
	} else {
		st, err := a.client.StockBySymbol(ctx, s, req.Symbol)
		if err != nil {
			failure("Failed to fetch stock price", err)
			return subcommands.ExitFailure
		}
		req.Price = st.Price
	}

	v := view.NewTradesView(a.client, a.store)
	v.Mount(ctx)
	defer v.Unmount()
	place := v.Buy
	if c.kind == stocksboard.Sell {
		place = v.Sell
	}
	t, err := place(ctx, req)
	if err != nil {
		failure("Trade failed", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%s %d %s at %s.\n", t.Type, t.Quantity, t.StockSymbol, stocksboard.M(t.Price, a.cfg.Currency))
	return subcommands.ExitSuccess
}
