package stocksboard

import "testing"

func TestLanding(t *testing.T) {
	tests := []struct {
		name string
		role string
		want Route
	}{
		{name: "backend admin role", role: "ROLE_ADMIN", want: RouteAdminDashboard},
		{name: "bare admin role", role: "ADMIN", want: RouteAdminDashboard},
		{name: "lower case", role: "role_admin", want: RouteAdminDashboard},
		{name: "user role", role: "ROLE_USER", want: RouteUserDashboard},
		{name: "bare user role", role: "USER", want: RouteUserDashboard},
		{name: "empty role", role: "", want: RouteUserDashboard},
		{name: "unknown role", role: "ROLE_AUDITOR", want: RouteUserDashboard},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Landing(Session{Token: "t", Role: tt.role}); got != tt.want {
				t.Errorf("Landing(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestSessionIsZero(t *testing.T) {
	if !(Session{}).IsZero() {
		t.Error("zero Session should be zero")
	}
	if !(Session{Role: RoleAdmin, Username: "alice"}).IsZero() {
		t.Error("a Session without token should be zero")
	}
	if (Session{Token: "t1"}).IsZero() {
		t.Error("a Session with a token should not be zero")
	}
}

func TestRouteAdminEditStock(t *testing.T) {
	if got, want := RouteAdminEditStock(42), Route("/admin/edit/42"); got != want {
		t.Errorf("RouteAdminEditStock(42) = %v, want %v", got, want)
	}
}
