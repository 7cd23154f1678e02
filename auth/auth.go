// Package auth exchanges credentials for a session.
//
// A Flow moves from Anonymous to Pending with each attempt, then to
// Authenticated or Failed. On success the session is written to the store and
// the landing route for the session role is returned; on failure the store is
// left untouched.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/logger"
	"github.com/etnz/stocksboard/session"
)

// State of a Flow.
type State int

const (
	Anonymous State = iota
	Pending
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Pending:
		return "pending"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// PartialRegistrationError reports an account that was created but could not
// log in: the account exists and no session was stored. It is never retried.
type PartialRegistrationError struct {
	Registration stocksboard.Registration
	Err          error // the login failure
}

func (e *PartialRegistrationError) Error() string {
	return fmt.Sprintf("account %q created but login failed: %v", e.Registration.Username, e.Err)
}

func (e *PartialRegistrationError) Unwrap() error { return e.Err }

// IsPartialRegistration reports whether err is a *PartialRegistrationError.
func IsPartialRegistration(err error) bool {
	var p *PartialRegistrationError
	return errors.As(err, &p)
}

// Flow runs the login and registration exchanges.
type Flow struct {
	client *api.Client
	store  *session.Store
	state  State
}

// New returns an Anonymous Flow.
func New(client *api.Client, store *session.Store) *Flow {
	return &Flow{client: client, store: store}
}

// State returns the state reached by the last attempt.
func (f *Flow) State() State { return f.state }

// Login validates cred, authenticates against the backend and stores the
// returned session. It returns the landing route for the session role.
//
// Empty fields fail with a stocksboard.ErrValidation error and no request.
func (f *Flow) Login(ctx context.Context, cred stocksboard.Credentials) (stocksboard.Route, error) {
	if err := stocksboard.Validate(cred); err != nil {
		f.state = Failed
		return "", err
	}
	f.state = Pending
	route, err := f.login(ctx, cred)
	if err != nil {
		f.state = Failed
		return "", err
	}
	f.state = Authenticated
	return route, nil
}

func (f *Flow) login(ctx context.Context, cred stocksboard.Credentials) (stocksboard.Route, error) {
	log := logger.Get()
	resp, err := f.client.Login(ctx, cred)
	if err != nil {
		log.Debug().Err(err).Str("username", cred.Username).Msg("login rejected")
		return "", fmt.Errorf("login: %w", err)
	}
	s := resp.Session()
	if s.IsZero() {
		return "", fmt.Errorf("login: %w: response carries no token", stocksboard.ErrTransport)
	}
	if err := f.store.Set(ctx, s); err != nil {
		return "", err
	}
	log.Info().Str("username", s.Username).Str("role", s.Role).Msg("logged in")
	return stocksboard.Landing(s), nil
}

// Register validates cred, creates the account, then logs in with the same
// credentials. When the account is created but the login fails, the error is
// a *PartialRegistrationError.
func (f *Flow) Register(ctx context.Context, cred stocksboard.Credentials) (stocksboard.Route, error) {
	if err := stocksboard.Validate(cred); err != nil {
		f.state = Failed
		return "", err
	}
	f.state = Pending
	reg, err := f.client.Register(ctx, cred)
	if err != nil {
		f.state = Failed
		return "", fmt.Errorf("register: %w", err)
	}
	if reg.Username == "" {
		reg.Username = cred.Username
	}
	log := logger.Get()
	log.Info().Str("username", reg.Username).Str("id", string(reg.ID)).Msg("account created")

	route, err := f.login(ctx, cred)
	if err != nil {
		f.state = Failed
		return "", &PartialRegistrationError{Registration: reg, Err: err}
	}
	f.state = Authenticated
	return route, nil
}
