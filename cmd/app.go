// Package cmd implements the StocksBoard command line client.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/config"
	"github.com/etnz/stocksboard/logger"
	"github.com/etnz/stocksboard/renderer"
	"github.com/etnz/stocksboard/session"
	"github.com/etnz/stocksboard/view"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	apiBase     = flag.String("api", "", "backend base URL (default $SB_API_BASE or "+api.DefaultBase+")")
	sessionFile = flag.String("session-file", "", "session file (default $SB_SESSION_FILE or "+session.DefaultFile()+")")
	profile     = flag.String("profile", "", "session profile when the session is kept in Redis (default $SB_SESSION_PROFILE)")
	currency    = flag.String("currency", "", "currency used to display prices (default $SB_CURRENCY or USD)")
	format      = flag.String("format", "", "output format: markdown, terminal or html (default terminal on a tty, markdown otherwise)")
	verbose     = flag.Bool("v", false, "verbose logging")
)

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfig reads the environment and applies the global flags.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if *apiBase != "" {
		cfg.APIBase = *apiBase
	}
	if cfg.APIBase == "" {
		cfg.APIBase = api.DefaultBase
	}
	if *sessionFile != "" {
		cfg.Session.File = *sessionFile
	}
	if cfg.Session.File == "" {
		cfg.Session.File = session.DefaultFile()
	}
	if *profile != "" {
		cfg.Session.Profile = *profile
	}
	if *currency != "" {
		cfg.Currency = *currency
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// app is what every command needs: the configuration, the backend client and
// the session store.
type app struct {
	cfg    *config.Config
	client *api.Client
	store  *session.Store
	format renderer.Format
	close  func() error
}

// openApp is the central function to open the configured backend and session
// storage.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.Format == "json", Output: os.Stderr})
	log := logger.Get()

	f, err := renderer.ParseFormat(*format)
	if err != nil {
		return nil, err
	}

	client, err := api.New(cfg.APIBase,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(log),
		api.WithHeader("User-Agent", "stocksboard-cli"),
		api.WithRequestID(uuid.NewString),
	)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, client: client, format: f, close: func() error { return nil }}
	if cfg.Session.Redis() {
		r, err := session.ConnectRedis(ctx, session.RedisConfig{
			Addr:    cfg.Session.RedisAddr,
			DB:      cfg.Session.RedisDB,
			Profile: cfg.Session.Profile,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("cannot open session storage: %w", err)
		}
		a.store, a.close = session.NewStore(r), r.Close
		log.Debug().Str("addr", cfg.Session.RedisAddr).Str("profile", cfg.Session.Profile).Msg("session in redis")
	} else {
		a.store = session.NewStore(session.NewFileStorage(cfg.Session.File))
		log.Debug().Str("file", cfg.Session.File).Msg("session in file")
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.close(); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("cannot close session storage")
	}
}

// page returns the chrome for a view titled title.
func (a *app) page(ctx context.Context, title string) renderer.Page {
	sh := view.NewShell(a.store)
	p := renderer.Page{Title: title, Username: view.Guest}
	if u, err := sh.Header(ctx); err == nil {
		p.Username = u
	}
	p.Nav, _ = sh.Nav(ctx)
	return p
}

func (a *app) options() renderer.Options { return renderer.Options{Currency: a.cfg.Currency} }

// print writes md in the selected output format.
func (a *app) print(md string) {
	if err := renderer.Print(stdout, md, a.format); err != nil {
		fmt.Fprintf(stderr, "Error rendering output: %v\n", err)
	}
}

// requireSession returns the stored session, or prints a hint when there is
// none.
func (a *app) requireSession(ctx context.Context) (stocksboard.Session, bool) {
	s, err := a.store.Get(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading session: %v\n", err)
		return s, false
	}
	if s.IsZero() {
		fmt.Fprintln(stderr, "Error: not logged in. Use 'login' or 'register' first.")
		return s, false
	}
	return s, true
}

// failure prints the user facing message for err.
func failure(what string, err error) {
	fmt.Fprintf(stderr, "Error: %s\n", api.Message(err, what))
}

// readPassword returns the password from the SB_PASSWORD env var, or prompts
// for it. The prompt hides the input on a terminal.
func readPassword(cfg *config.Config, in *bufio.Reader) (string, error) {
	if cfg.Password != "" {
		return cfg.Password, nil
	}
	fmt.Fprint(stderr, "Password: ")
	if f, ok := stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(stderr)
		return string(b), err
	}
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("cannot read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question on stderr and reads the answer from in.
func confirm(in *bufio.Reader, prompt string) bool {
	fmt.Fprintf(stderr, "%s [y/N] ", prompt)
	line, _ := in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
