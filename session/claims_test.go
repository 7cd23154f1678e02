package session

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/stocksboard"
	"github.com/golang-jwt/jwt/v5"
)

func TestDecodeClaims(t *testing.T) {
	iat := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	exp := iat.Add(10 * time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "alice",
		"role": "ROLE_ADMIN",
		"iat":  iat.Unix(),
		"exp":  exp.Unix(),
	}).SignedString([]byte("some key the client never sees"))
	if err != nil {
		t.Fatal(err)
	}

	c, err := DecodeClaims(stocksboard.Session{Token: tok})
	if err != nil {
		t.Fatalf("DecodeClaims(): %v", err)
	}
	if c.Subject != "alice" || c.Role != "ROLE_ADMIN" {
		t.Errorf("DecodeClaims() = %+v, want subject alice role ROLE_ADMIN", c)
	}
	if !c.IssuedAt.Equal(iat) || !c.ExpiresAt.Equal(exp) {
		t.Errorf("DecodeClaims() times = %v..%v, want %v..%v", c.IssuedAt, c.ExpiresAt, iat, exp)
	}
	if c.Expired(iat.Add(time.Hour)) {
		t.Error("Expired() one hour after issue = true")
	}
	if !c.Expired(exp.Add(time.Second)) {
		t.Error("Expired() after exp = false")
	}
}

func TestDecodeClaimsOpaque(t *testing.T) {
	for _, tok := range []string{"", "t1", "a.b.c"} {
		if _, err := DecodeClaims(stocksboard.Session{Token: tok}); !errors.Is(err, ErrOpaqueToken) {
			t.Errorf("DecodeClaims(%q) err = %v, want ErrOpaqueToken", tok, err)
		}
	}
}
