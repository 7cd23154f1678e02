package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/stocksboard/renderer"
	"github.com/etnz/stocksboard/view"
	"github.com/google/subcommands"
)

// screen is a mounted view driven by the console.
type screen struct {
	mount   func(ctx context.Context)
	unmount func()
	load    func(ctx context.Context) error
	render  func(ctx context.Context) string
	remove  func(ctx context.Context, id int64) error // nil when the view has no delete action
	refresh func(ctx context.Context) (string, error) // nil when the view has no price refresh
}

type consoleCmd struct {
	view string
}

func (*consoleCmd) Name() string     { return "console" }
func (*consoleCmd) Synopsis() string { return "browse a view interactively" }
func (*consoleCmd) Usage() string {
	return `sb console [-view stocks|users|market|trades]

  Opens a view and reads commands from the standard input, one per line:

    list               show the view again
    reload             fetch the list from the backend
    delete <id>        delete an item (stocks and users)
    update-prices      refresh every stock price (stocks)
    help               list the commands
    quit               close the view

  The default view is the landing page of the account role.
`
}

func (c *consoleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.view, "view", "", "view to open: stocks, users, market or trades")
}

func (c *consoleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	name := c.view
	if name == "" {
		name = "market"
		if s.IsAdmin() {
			name = "stocks"
		}
	}
	in := bufio.NewReader(stdin)
	sc, err := a.screen(name, in)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	sc.mount(ctx)
	defer sc.unmount()
	if err := sc.load(ctx); err != nil {
		failure("Failed to fetch "+name, err)
	}
	a.print(sc.render(ctx))

	for {
		fmt.Fprint(stderr, "> ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			if err != nil {
				return subcommands.ExitSuccess
			}
			continue
		}
		if !a.console(ctx, sc, fields) {
			return subcommands.ExitSuccess
		}
		if err != nil {
			return subcommands.ExitSuccess
		}
	}
}

// console runs one console command. It returns false when the console must
// close.
func (a *app) console(ctx context.Context, sc *screen, fields []string) bool {
	switch fields[0] {
	case "quit", "exit":
		return false
	case "list", "show":
		a.print(sc.render(ctx))
	case "reload":
		if err := sc.load(ctx); err != nil {
			failure("Failed to fetch", err)
			return true
		}
		a.print(sc.render(ctx))
	case "delete":
		if sc.remove == nil {
			fmt.Fprintln(stderr, "Error: this view has no delete action.")
			return true
		}
		if len(fields) != 2 {
			fmt.Fprintln(stderr, "Error: usage: delete <id>")
			return true
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(stderr, "Error: invalid id %q\n", fields[1])
			return true
		}
		err = sc.remove(ctx, id)
		switch {
		case errors.Is(err, view.ErrCanceled):
			fmt.Fprintln(stderr, "Canceled.")
		case err != nil:
			failure("Delete failed", err)
		default:
			a.print(sc.render(ctx))
		}
	case "update-prices":
		if sc.refresh == nil {
			fmt.Fprintln(stderr, "Error: this view has no price refresh.")
			return true
		}
		msg, err := sc.refresh(ctx)
		if err != nil {
			failure("Failed to update prices", err)
			return true
		}
		fmt.Fprintln(stderr, msg)
		a.print(sc.render(ctx))
	case "help":
		fmt.Fprintln(stderr, "Commands: list, reload, delete <id>, update-prices, help, quit")
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q, try 'help'.\n", fields[0])
	}
	return true
}

// screen builds the console screen for the view called name.
func (a *app) screen(name string, in *bufio.Reader) (*screen, error) {
	sc := new(screen)
	switch name {
	case "stocks":
		v := view.NewStocksView(a.client, a.store)
		sc.mount, sc.unmount, sc.load = v.Mount, v.Unmount, v.Load
		sc.render = func(ctx context.Context) string {
			return renderer.Stocks(a.page(ctx, "Admin Dashboard"), v.Items(), a.options())
		}
		sc.remove = v.Delete
		sc.refresh = v.UpdatePrices
	case "users":
		v := view.NewUsersView(a.client, a.store, func(prompt string) bool { return confirm(in, prompt) })
		sc.mount, sc.unmount, sc.load = v.Mount, v.Unmount, v.Load
		sc.render = func(ctx context.Context) string {
			return renderer.Users(a.page(ctx, "Manage Users"), v.Items())
		}
		sc.remove = v.Delete
	case "market":
		v := view.NewMarketView(a.client, a.store)
		sc.mount, sc.unmount, sc.load = v.Mount, v.Unmount, v.Load
		sc.render = func(ctx context.Context) string {
			return renderer.Market(a.page(ctx, "Stocks"), v.Items(), a.options())
		}
	case "trades":
		v := view.NewTradesView(a.client, a.store)
		sc.mount, sc.unmount, sc.load = v.Mount, v.Unmount, v.Load
		sc.render = func(ctx context.Context) string {
			return renderer.Trades(a.page(ctx, "Trade History"), v.Items(), a.options())
		}
	default:
		return nil, fmt.Errorf("unknown view %q: want stocks, users, market or trades", name)
	}
	return sc, nil
}
