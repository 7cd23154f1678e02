package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/auth"
	"github.com/google/subcommands"
)

// credentialFlags are shared by login and register.
type credentialFlags struct {
	password string
}

func (c *credentialFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "password", "", "account password (default $SB_PASSWORD, or prompted)")
}

// credentials reads the username from the first argument, or prompts for it,
// and the password from the flag, the environment or a prompt.
func (c *credentialFlags) credentials(a *app, f *flag.FlagSet) (stocksboard.Credentials, error) {
	in := bufio.NewReader(stdin)
	var cred stocksboard.Credentials
	if f.NArg() > 0 {
		cred.Username = strings.TrimSpace(f.Arg(0))
	} else {
		fmt.Fprint(stderr, "Username: ")
		line, _ := in.ReadString('\n')
		cred.Username = strings.TrimSpace(line)
	}
	cred.Password = c.password
	if cred.Password == "" && cred.Username != "" {
		p, err := readPassword(a.cfg, in)
		if err != nil {
			return cred, err
		}
		cred.Password = p
	}
	return cred, nil
}

type loginCmd struct {
	credentialFlags
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and store the session" }
func (*loginCmd) Usage() string {
	return `sb login [-password <password>] <username>

  Authenticates against the backend and stores the session (token, role,
  user id and username). Prints the landing page for the account role.
`
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	cred, err := c.credentials(a, f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	route, err := auth.New(a.client, a.store).Login(ctx, cred)
	if err != nil {
		failure("Login failed", err)
		return subcommands.ExitFailure
	}
	name := cred.Username
	if s, err := a.store.Get(ctx); err == nil && s.Username != "" {
		name = s.Username
	}
	fmt.Fprintf(stdout, "Logged in as %s. Home: %s\n", name, route)
	return subcommands.ExitSuccess
}

type registerCmd struct {
	credentialFlags
}

func (*registerCmd) Name() string     { return "register" }
func (*registerCmd) Synopsis() string { return "create an account and log in" }
func (*registerCmd) Usage() string {
	return `sb register [-password <password>] <username>

  Creates a user account, then logs in with the same credentials.
  If the account is created but the login fails, the account exists and no
  session is stored: log in with 'sb login'.
`
}

func (c *registerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	cred, err := c.credentials(a, f)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	route, err := auth.New(a.client, a.store).Register(ctx, cred)
	if auth.IsPartialRegistration(err) {
		fmt.Fprintf(stderr, "Error: account %q created, %s\nRun 'sb login %s' to try again.\n",
			cred.Username, api.Message(err, "but login failed"), cred.Username)
		return subcommands.ExitFailure
	}
	if err != nil {
		failure("Registration failed", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Account %s created. Home: %s\n", cred.Username, route)
	return subcommands.ExitSuccess
}
