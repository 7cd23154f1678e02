package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/renderer"
	"github.com/etnz/stocksboard/session"
	"github.com/etnz/stocksboard/view"
	"github.com/google/subcommands"
)

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "clear the stored session" }
func (*logoutCmd) Usage() string {
	return `sb logout

  Removes the stored session, whatever the account role.
`
}

func (*logoutCmd) SetFlags(f *flag.FlagSet) {}

func (*logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	route, err := view.NewShell(a.store).Logout(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Logged out. Home: %s\n", route)
	return subcommands.ExitSuccess
}

type whoamiCmd struct{}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the stored session" }
func (*whoamiCmd) Usage() string {
	return `sb whoami

  Shows the stored session. When the token is a JWT, its subject and expiry
  are decoded for display; the token is not verified.
`
}

func (*whoamiCmd) SetFlags(f *flag.FlagSet) {}

func (*whoamiCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	s, err := a.store.Get(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	id := renderer.Identity{Session: s, Landing: stocksboard.Landing(s)}
	if c, err := session.DecodeClaims(s); err == nil {
		id.Subject = c.Subject
		if !c.ExpiresAt.IsZero() {
			id.ExpiresAt = c.ExpiresAt.Local().Format("2006-01-02 15:04")
			id.Expired = c.Expired(time.Now())
		}
	}
	a.print(renderer.Whoami(a.page(ctx, "Session"), id))
	return subcommands.ExitSuccess
}

type homeCmd struct{}

func (*homeCmd) Name() string     { return "home" }
func (*homeCmd) Synopsis() string { return "open the landing page of the account role" }
func (*homeCmd) Usage() string {
	return `sb home

  Opens the admin dashboard for administrators, the user dashboard otherwise.
  Without a session, tells how to log in.
`
}

func (*homeCmd) SetFlags(f *flag.FlagSet) {}

func (*homeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	s, err := a.store.Get(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if s.IsZero() {
		return a.show(ctx, stocksboard.RouteLogin)
	}
	route, err := view.NewShell(a.store).Brand(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return a.show(ctx, route)
}
