package view

import (
	"context"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/session"
)

// Guest is the header shown without a session.
const Guest = "Guest"

// Shell is the navigation chrome around every view. It reads the session on
// every call.
type Shell struct {
	store *session.Store
}

// NewShell returns a Shell over store.
func NewShell(store *session.Store) *Shell { return &Shell{store: store} }

// Brand returns the route the brand link points to: the landing dashboard
// of the session role.
func (sh *Shell) Brand(ctx context.Context) (stocksboard.Route, error) {
	s, err := sh.store.Get(ctx)
	if err != nil {
		return "", err
	}
	return stocksboard.Landing(s), nil
}

// Header returns the username to display, or Guest.
func (sh *Shell) Header(ctx context.Context) (string, error) {
	s, err := sh.store.Get(ctx)
	if err != nil {
		return "", err
	}
	if s.Username == "" {
		return Guest, nil
	}
	return s.Username, nil
}

// Nav returns the links of the navigation bar for the session role.
func (sh *Shell) Nav(ctx context.Context) ([]stocksboard.Route, error) {
	s, err := sh.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case s.IsZero():
		return []stocksboard.Route{stocksboard.RouteLogin, stocksboard.RouteRegister}, nil
	case s.IsAdmin():
		return []stocksboard.Route{stocksboard.RouteAdminDashboard, stocksboard.RouteAdminUsers, stocksboard.RouteAdminAddStock}, nil
	default:
		return []stocksboard.Route{stocksboard.RouteUserDashboard, stocksboard.RouteUserStocks, stocksboard.RouteUserPortfolio, stocksboard.RouteUserTrades}, nil
	}
}

// Logout clears the session whatever the role and returns the login route.
func (sh *Shell) Logout(ctx context.Context) (stocksboard.Route, error) {
	if err := sh.store.Clear(ctx); err != nil {
		return "", err
	}
	return stocksboard.RouteLogin, nil
}
