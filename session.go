package stocksboard

import (
	"fmt"
	"strings"
)

// Roles as emitted by the backend.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Session is the client-held proof of authentication plus the identity it
// belongs to.
//
// A zero Session means "no session".
type Session struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// IsZero reports whether there is no token, hence no usable session.
func (s Session) IsZero() bool { return s.Token == "" }

// IsAdmin reports whether the session role is the admin role.
//
// Both the backend spelling "ROLE_ADMIN" and the bare "ADMIN" are accepted.
func (s Session) IsAdmin() bool { return IsAdminRole(s.Role) }

// IsAdminRole reports whether role designates an administrator.
func IsAdminRole(role string) bool {
	return strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(role)), "ROLE_") == "ADMIN"
}

// Route is a client-side location. Routes are used to decide what to show
// next, they are never used to enforce access.
type Route string

const (
	RouteLogin          Route = "/login"
	RouteRegister       Route = "/register"
	RouteAdminDashboard Route = "/admin/dashboard"
	RouteAdminUsers     Route = "/admin/users"
	RouteAdminAddStock  Route = "/admin/add"
	RouteUserDashboard  Route = "/user/dashboard"
	RouteUserPortfolio  Route = "/user/portfolio"
	RouteUserStocks     Route = "/user/stocks"
	RouteUserTrades     Route = "/user/trades"
)

// RouteAdminEditStock returns the route to the edit page of stock id.
func RouteAdminEditStock(id int64) Route { return Route(fmt.Sprintf("/admin/edit/%d", id)) }

func (r Route) String() string { return string(r) }

// Landing returns the route a session lands on: the admin dashboard for
// admins, the user dashboard for anyone else.
func Landing(s Session) Route {
	if s.IsAdmin() {
		return RouteAdminDashboard
	}
	return RouteUserDashboard
}
