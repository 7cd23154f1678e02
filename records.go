package stocksboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a listed security as known by the backend.
type Stock struct {
	ID     int64           `json:"id"`
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Key returns the stock identifier.
func (s Stock) Key() int64 { return s.ID }

// StockRequest is the payload to create or update a stock.
type StockRequest struct {
	Symbol string          `json:"symbol" validate:"required"`
	Name   string          `json:"name" validate:"required"`
	Price  decimal.Decimal `json:"price" validate:"gt=0"`
}

// User is an account as listed by the user management endpoint.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Key returns the user identifier.
func (u User) Key() int64 { return u.ID }

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool { return IsAdminRole(u.Role) }

// Credentials are exchanged for a session.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the payload returned by a successful login.
type LoginResponse struct {
	Message  string `json:"message,omitempty"`
	Token    string `json:"token"`
	Role     string `json:"role"`
	UserID   UserID `json:"userId"`
	Username string `json:"username"`
}

// Session returns the session described by the login response.
func (r LoginResponse) Session() Session {
	return Session{Token: r.Token, Role: r.Role, UserID: string(r.UserID), Username: r.Username}
}

// Registration is the payload returned by a successful registration.
type Registration struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// UserID is a user identifier kept as a string.
//
// The backend emits it as a JSON number, the session stores it as a string:
// both forms decode.
type UserID string

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid user id %s: %w", data, err)
	}
	*id = UserID(n.String())
	return nil
}

// Int64 returns the numeric form of the id.
func (id UserID) Int64() (int64, error) { return strconv.ParseInt(string(id), 10, 64) }

// Holding is one active position in a user portfolio. All amounts are
// computed by the backend.
type Holding struct {
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name"`
	Quantity         int64           `json:"quantity"`
	AvgCost          decimal.Decimal `json:"avgCost"`
	CurrentPrice     decimal.Decimal `json:"currentPrice"`
	RealizedProfit   decimal.Decimal `json:"realizedProfit"`
	UnrealizedProfit decimal.Decimal `json:"unrealizedProfit"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
}

// Trade types.
const (
	Buy  = "BUY"
	Sell = "SELL"
)

// Trade is one executed buy or sell.
type Trade struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	StockSymbol string          `json:"stockSymbol"`
	StockName   string          `json:"stockName"`
	Timestamp   Timestamp       `json:"timestamp"`
}

func (t Trade) Key() int64 { return t.ID }

// TradeRequest is the payload to buy or sell a stock.
type TradeRequest struct {
	Symbol   string          `json:"symbol" validate:"required"`
	Quantity int64           `json:"quantity" validate:"min=1"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
}

// Timestamp is a backend date-time. The backend emits local date-times
// without zone ("2025-03-01T10:15:30"), RFC 3339 is accepted too.
type Timestamp struct{ time.Time }

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON decodes the backend date-time formats.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var err error
	for _, layout := range timestampLayouts {
		var v time.Time
		if v, err = time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q: %w", s, err)
}

// MarshalJSON encodes the timestamp in the backend format.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
