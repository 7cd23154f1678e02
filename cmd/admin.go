package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/renderer"
	"github.com/etnz/stocksboard/view"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// parseID parses the single <id> argument of a command.
func parseID(f *flag.FlagSet) (int64, bool) {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one <id> argument is required.")
		return 0, false
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(stderr, "Error: invalid id %q\n", f.Arg(0))
		return 0, false
	}
	return id, true
}

type stocksCmd struct{}

func (*stocksCmd) Name() string     { return "stocks" }
func (*stocksCmd) Synopsis() string { return "show the admin dashboard: every stock" }
func (*stocksCmd) Usage() string {
	return `sb stocks

  Lists every stock with its current price.
`
}

func (*stocksCmd) SetFlags(f *flag.FlagSet) {}

func (*stocksCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return a.showStocks(ctx)
}

// stockFlags holds the fields of a stock form.
type stockFlags struct {
	symbol string
	name   string
	price  string
}

func (c *stockFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "stock symbol, e.g. AAPL")
	f.StringVar(&c.name, "name", "", "company name")
	f.StringVar(&c.price, "price", "", "price, a positive decimal")
}

// apply copies the flags that were set into the form.
func (c *stockFlags) apply(form *view.StockForm) error {
	if c.symbol != "" {
		form.Symbol = c.symbol
	}
	if c.name != "" {
		form.Name = c.name
	}
	if c.price != "" {
		p, err := decimal.NewFromString(c.price)
		if err != nil {
			return fmt.Errorf("%w: invalid price %q", stocksboard.ErrValidation, c.price)
		}
		form.Price = p
	}
	return nil
}

type addStockCmd struct {
	stockFlags
}

func (*addStockCmd) Name() string     { return "add-stock" }
func (*addStockCmd) Synopsis() string { return "add a stock" }
func (*addStockCmd) Usage() string {
	return `sb add-stock -symbol <symbol> -name <name> -price <price>

  Adds a stock. The symbol must not exist yet.
`
}

func (c *addStockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}

	form := view.NewStockForm(a.client, a.store)
	form.Mount(ctx)
	defer form.Unmount()
	if err := c.apply(form); err != nil {
		failure("Failed to add stock", err)
		return subcommands.ExitUsageError
	}
	st, err := form.Submit(ctx)
	if err != nil {
		failure("Failed to add stock", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Stock %s added with id %d.\n", st.Symbol, st.ID)
	return subcommands.ExitSuccess
}

type editStockCmd struct {
	stockFlags
}

func (*editStockCmd) Name() string     { return "edit-stock" }
func (*editStockCmd) Synopsis() string { return "edit a stock" }
func (*editStockCmd) Usage() string {
	return `sb edit-stock [-symbol <symbol>] [-name <name>] [-price <price>] <id>

  Loads the stock <id> and updates the fields given as flags.
`
}

func (c *editStockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := parseID(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}

	form := view.NewStockForm(a.client, a.store)
	form.Mount(ctx)
	defer form.Unmount()
	if err := form.Load(ctx, id); err != nil {
		failure("Failed to load stock", err)
		return subcommands.ExitFailure
	}
	if err := c.apply(form); err != nil {
		failure("Failed to update stock", err)
		return subcommands.ExitUsageError
	}
	st, err := form.Submit(ctx)
	if err != nil {
		failure("Failed to update stock", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Stock %d updated: %s %s %s.\n", st.ID, st.Symbol, st.Name, stocksboard.M(st.Price, a.cfg.Currency))
	return subcommands.ExitSuccess
}

type deleteStockCmd struct{}

func (*deleteStockCmd) Name() string     { return "delete-stock" }
func (*deleteStockCmd) Synopsis() string { return "delete a stock" }
func (*deleteStockCmd) Usage() string {
	return `sb delete-stock <id>

  Deletes the stock <id>, then shows the remaining stocks.
`
}

func (*deleteStockCmd) SetFlags(f *flag.FlagSet) {}

func (*deleteStockCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := parseID(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}

	v := view.NewStocksView(a.client, a.store)
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Load(ctx); err != nil {
		failure("Failed to fetch stocks", err)
		return subcommands.ExitFailure
	}
	if err := v.Delete(ctx, id); err != nil {
		failure("Delete failed", err)
		return subcommands.ExitFailure
	}
	a.print(renderer.Stocks(a.page(ctx, "Admin Dashboard"), v.Items(), a.options()))
	return subcommands.ExitSuccess
}

type updatePricesCmd struct{}

func (*updatePricesCmd) Name() string     { return "update-prices" }
func (*updatePricesCmd) Synopsis() string { return "refresh every stock price from market data" }
func (*updatePricesCmd) Usage() string {
	return `sb update-prices

  Asks the backend to refresh every price, then shows the updated stocks.
`
}

func (*updatePricesCmd) SetFlags(f *flag.FlagSet) {}

func (*updatePricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}

	v := view.NewStocksView(a.client, a.store)
	v.Mount(ctx)
	defer v.Unmount()
	msg, err := v.UpdatePrices(ctx)
	if err != nil {
		failure("Failed to update prices", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stderr, msg)
	a.print(renderer.Stocks(a.page(ctx, "Admin Dashboard"), v.Items(), a.options()))
	return subcommands.ExitSuccess
}

type usersCmd struct{}

func (*usersCmd) Name() string     { return "users" }
func (*usersCmd) Synopsis() string { return "list user accounts" }
func (*usersCmd) Usage() string {
	return `sb users

  Lists the user accounts. Administrators are not listed.
`
}

func (*usersCmd) SetFlags(f *flag.FlagSet) {}

func (*usersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	return a.showUsers(ctx)
}

type deleteUserCmd struct {
	yes bool
}

func (*deleteUserCmd) Name() string     { return "delete-user" }
func (*deleteUserCmd) Synopsis() string { return "delete a user and all their records" }
func (*deleteUserCmd) Usage() string {
	return `sb delete-user [-y] <id>

  Deletes the user <id>. The backend also deletes their portfolio and trade
  records. Asks for confirmation unless -y is given.
`
}

func (c *deleteUserCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "do not ask for confirmation")
}

func (c *deleteUserCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, ok := parseID(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}

	in := bufio.NewReader(stdin)
	v := view.NewUsersView(a.client, a.store, func(prompt string) bool {
		return c.yes || confirm(in, prompt)
	})
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Load(ctx); err != nil {
		failure("Failed to fetch users", err)
		return subcommands.ExitFailure
	}
	err = v.Delete(ctx, id)
	if errors.Is(err, view.ErrCanceled) {
		fmt.Fprintln(stderr, "Canceled.")
		return subcommands.ExitSuccess
	}
	if err != nil {
		failure("Failed to delete user", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, "User and all related records deleted successfully.")
	return subcommands.ExitSuccess
}
