package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/apitest"
	"github.com/etnz/stocksboard/session"
)

func newFlow(t *testing.T, base string) (*Flow, *session.Store, *session.MemoryStorage) {
	t.Helper()
	client, err := api.New(base)
	if err != nil {
		t.Fatal(err)
	}
	m := session.NewMemoryStorage(nil)
	st := session.NewStore(m)
	return New(client, st), st, m
}

// TestLoginAlice checks the literal login exchange: the four fields are
// stored as received and the admin lands on the admin dashboard.
func TestLoginAlice(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"message":"Login successful","token":"t1","role":"ROLE_ADMIN","userId":1,"username":"alice"}`)
	}))
	defer srv.Close()

	f, st, _ := newFlow(t, srv.URL)
	route, err := f.Login(context.Background(), stocksboard.Credentials{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}
	if want := `{"username":"alice","password":"secret"}`; body != want {
		t.Errorf("request body = %s, want %s", body, want)
	}
	if route != stocksboard.RouteAdminDashboard {
		t.Errorf("Login() route = %q, want %q", route, stocksboard.RouteAdminDashboard)
	}
	want := stocksboard.Session{Token: "t1", Role: "ROLE_ADMIN", UserID: "1", Username: "alice"}
	if got, _ := st.Get(context.Background()); got != want {
		t.Errorf("stored session = %+v, want %+v", got, want)
	}
	if f.State() != Authenticated {
		t.Errorf("State() = %v, want authenticated", f.State())
	}
}

func TestLoginValidation(t *testing.T) {
	srv := apitest.New(t)
	for _, cred := range []stocksboard.Credentials{
		{Username: "", Password: "secret"},
		{Username: "alice", Password: ""},
		{},
	} {
		f, _, m := newFlow(t, srv.URL)
		_, err := f.Login(context.Background(), cred)
		if !errors.Is(err, stocksboard.ErrValidation) {
			t.Errorf("Login(%+v) err = %v, want ErrValidation", cred, err)
		}
		if m.Len() != 0 {
			t.Errorf("Login(%+v) stored %d keys", cred, m.Len())
		}
		if f.State() != Failed {
			t.Errorf("State() = %v, want failed", f.State())
		}
	}
	if n := srv.Calls("POST /api/auth/login"); n != 0 {
		t.Errorf("login calls = %d, want 0", n)
	}
}

func TestLoginVariants(t *testing.T) {
	srv := apitest.New(t)
	srv.AddUser("bob", "hunter22", stocksboard.RoleUser)

	tests := []struct {
		name    string
		cred    stocksboard.Credentials
		route   stocksboard.Route
		message string // backend message shown when failing
	}{
		{"admin", stocksboard.Credentials{Username: "admin", Password: "admin123"}, stocksboard.RouteAdminDashboard, ""},
		{"user", stocksboard.Credentials{Username: "bob", Password: "hunter22"}, stocksboard.RouteUserDashboard, ""},
		{"wrong password", stocksboard.Credentials{Username: "bob", Password: "nope"}, "", "Login failed: Invalid password"},
		{"unknown user", stocksboard.Credentials{Username: "carol", Password: "whatever"}, "", "Login failed: Username not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, st, m := newFlow(t, srv.URL)
			route, err := f.Login(context.Background(), tt.cred)
			if tt.message != "" {
				if err == nil {
					t.Fatal("Login() succeeded, want an error")
				}
				if got := api.Message(err, "Login failed"); got != tt.message {
					t.Errorf("message = %q, want %q", got, tt.message)
				}
				if m.Len() != 0 {
					t.Errorf("failed login stored %d keys", m.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("Login(): %v", err)
			}
			if route != tt.route {
				t.Errorf("route = %q, want %q", route, tt.route)
			}
			s, _ := st.Get(context.Background())
			if s.Username != tt.cred.Username || s.Token == "" || s.UserID == "" {
				t.Errorf("stored session = %+v", s)
			}
		})
	}
}

func TestLoginKeepsPreviousSessionOnFailure(t *testing.T) {
	srv := apitest.New(t)
	f, st, _ := newFlow(t, srv.URL)
	ctx := context.Background()
	if _, err := f.Login(ctx, stocksboard.Credentials{Username: "admin", Password: "admin123"}); err != nil {
		t.Fatal(err)
	}
	before, _ := st.Get(ctx)
	if _, err := f.Login(ctx, stocksboard.Credentials{Username: "admin", Password: "bad"}); err == nil {
		t.Fatal("Login() with a bad password succeeded")
	}
	if after, _ := st.Get(ctx); after != before {
		t.Errorf("session changed on failed login: %+v → %+v", before, after)
	}
}

func TestLoginTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	f, _, m := newFlow(t, base)
	_, err := f.Login(context.Background(), stocksboard.Credentials{Username: "a", Password: "b"})
	if !errors.Is(err, stocksboard.ErrTransport) {
		t.Errorf("Login() err = %v, want ErrTransport", err)
	}
	if m.Len() != 0 {
		t.Errorf("stored %d keys", m.Len())
	}
}

func TestRegisterMatchesFreshLogin(t *testing.T) {
	srv := apitest.New(t)
	ctx := context.Background()
	cred := stocksboard.Credentials{Username: "dana", Password: "secret1"}

	f, st, _ := newFlow(t, srv.URL)
	route, err := f.Register(ctx, cred)
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}
	if route != stocksboard.RouteUserDashboard {
		t.Errorf("Register() route = %q, want %q", route, stocksboard.RouteUserDashboard)
	}
	registered, _ := st.Get(ctx)

	g, st2, _ := newFlow(t, srv.URL)
	if _, err := g.Login(ctx, cred); err != nil {
		t.Fatal(err)
	}
	fresh, _ := st2.Get(ctx)

	// tokens differ per issue; the identity is the same.
	registered.Token, fresh.Token = "", ""
	if registered != fresh {
		t.Errorf("session after register = %+v, after login = %+v", registered, fresh)
	}
}

func TestRegisterRejected(t *testing.T) {
	srv := apitest.New(t)
	f, _, m := newFlow(t, srv.URL)
	_, err := f.Register(context.Background(), stocksboard.Credentials{Username: "admin", Password: "another1"})
	if err == nil {
		t.Fatal("Register() of an existing username succeeded")
	}
	if IsPartialRegistration(err) {
		t.Errorf("Register() err = %v, want a plain registration failure", err)
	}
	if got, want := api.Message(err, "Registration failed"), "Registration failed: Username already exists"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if n := srv.Calls("POST /api/auth/login"); n != 0 {
		t.Errorf("login calls = %d, want 0", n)
	}
	if m.Len() != 0 {
		t.Errorf("stored %d keys", m.Len())
	}
}

func TestPartialRegistration(t *testing.T) {
	srv := apitest.New(t)
	srv.Fail("POST /api/auth/login", http.StatusServiceUnavailable, "login disabled")

	f, _, m := newFlow(t, srv.URL)
	_, err := f.Register(context.Background(), stocksboard.Credentials{Username: "erin", Password: "secret1"})
	var p *PartialRegistrationError
	if !errors.As(err, &p) {
		t.Fatalf("Register() err = %v, want *PartialRegistrationError", err)
	}
	if p.Registration.Username != "erin" {
		t.Errorf("Registration = %+v", p.Registration)
	}
	if !srv.HasUser("erin") {
		t.Error("account was not created")
	}
	if m.Len() != 0 {
		t.Errorf("stored %d keys, want none", m.Len())
	}
	if n := srv.Calls("POST /api/auth/login"); n != 1 {
		t.Errorf("login calls = %d, want exactly 1", n)
	}
	if f.State() != Failed {
		t.Errorf("State() = %v, want failed", f.State())
	}
}
