package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/renderer"
	"github.com/etnz/stocksboard/view"
	"github.com/google/subcommands"
)

// show prints the view a route points to.
func (a *app) show(ctx context.Context, route stocksboard.Route) subcommands.ExitStatus {
	switch {
	case route == stocksboard.RouteAdminDashboard:
		return a.showStocks(ctx)
	case route == stocksboard.RouteAdminUsers:
		return a.showUsers(ctx)
	case route == stocksboard.RouteAdminAddStock:
		fmt.Fprintln(stdout, "Use 'sb add-stock -symbol <symbol> -name <name> -price <price>' to add a stock.")
		return subcommands.ExitSuccess
	case strings.HasPrefix(string(route), "/admin/edit/"):
		fmt.Fprintf(stdout, "Use 'sb edit-stock %s' to edit this stock.\n", strings.TrimPrefix(string(route), "/admin/edit/"))
		return subcommands.ExitSuccess
	case route == stocksboard.RouteUserDashboard, route == stocksboard.RouteUserPortfolio:
		return a.showPortfolio(ctx)
	case route == stocksboard.RouteUserStocks:
		return a.showMarket(ctx)
	case route == stocksboard.RouteUserTrades:
		return a.showTrades(ctx)
	case route == stocksboard.RouteLogin, route == stocksboard.RouteRegister:
		fmt.Fprintln(stdout, "Not logged in. Use 'sb login <username>' or 'sb register <username>'.")
		return subcommands.ExitSuccess
	}
	fmt.Fprintf(stderr, "Error: unknown page %q\n", route)
	return subcommands.ExitFailure
}

func (a *app) showStocks(ctx context.Context) subcommands.ExitStatus {
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
	a.print(renderer.Stocks(a.page(ctx, "Admin Dashboard"), v.Items(), a.options()))
	return subcommands.ExitSuccess
}

func (a *app) showUsers(ctx context.Context) subcommands.ExitStatus {
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}
	v := view.NewUsersView(a.client, a.store, nil)
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Load(ctx); err != nil {
		failure("Failed to fetch users", err)
		return subcommands.ExitFailure
	}
	a.print(renderer.Users(a.page(ctx, "Manage Users"), v.Items()))
	return subcommands.ExitSuccess
}

func (a *app) showMarket(ctx context.Context) subcommands.ExitStatus {
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}
	v := view.NewMarketView(a.client, a.store)
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Load(ctx); err != nil {
		failure("Failed to fetch stocks", err)
		return subcommands.ExitFailure
	}
	a.print(renderer.Market(a.page(ctx, "Stocks"), v.Items(), a.options()))
	return subcommands.ExitSuccess
}

func (a *app) showPortfolio(ctx context.Context) subcommands.ExitStatus {
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}
	v := view.NewPortfolioView(a.client, a.store)
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Load(ctx); err != nil {
		failure("Failed to fetch portfolio", err)
		return subcommands.ExitFailure
	}
	a.print(renderer.Portfolio(a.page(ctx, "Portfolio"), v.Holdings(), v.TotalProfit(), a.options()))
	return subcommands.ExitSuccess
}

func (a *app) showTrades(ctx context.Context) subcommands.ExitStatus {
	if _, ok := a.requireSession(ctx); !ok {
		return subcommands.ExitFailure
	}
	v := view.NewTradesView(a.client, a.store)
	v.Mount(ctx)
	defer v.Unmount()
	if err := v.Load(ctx); err != nil {
		failure("Failed to fetch trades", err)
		return subcommands.ExitFailure
	}
	a.print(renderer.Trades(a.page(ctx, "Trade History"), v.Items(), a.options()))
	return subcommands.ExitSuccess
}
