package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/etnz/stocksboard"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what a session token says about itself.
//
// The client owns no key to verify the token: claims are decoded unverified
// and only ever displayed. Nothing here expires, refreshes or revokes a session.
type Claims struct {
	Subject   string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token claims an expiry before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

// ErrOpaqueToken is returned by DecodeClaims for tokens that are not JWTs.
var ErrOpaqueToken = errors.New("token is not a JWT")

// DecodeClaims decodes the claims of the session token without verifying
// its signature.
func DecodeClaims(s stocksboard.Session) (Claims, error) {
	if s.Token == "" {
		return Claims{}, ErrOpaqueToken
	}
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}
	var c Claims
	c.Subject, _ = mc.GetSubject()
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	if iat, _ := mc.GetIssuedAt(); iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, _ := mc.GetExpirationTime(); exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}
