package stocksboard

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoginResponseSession(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Session
	}{
		{
			name: "numeric user id",
			body: `{"message":"Login successful","token":"t1","role":"ROLE_ADMIN","userId":1,"username":"alice"}`,
			want: Session{Token: "t1", Role: "ROLE_ADMIN", UserID: "1", Username: "alice"},
		},
		{
			name: "string user id",
			body: `{"token":"t1","role":"ROLE_ADMIN","userId":"1","username":"alice"}`,
			want: Session{Token: "t1", Role: "ROLE_ADMIN", UserID: "1", Username: "alice"},
		},
		{
			name: "null user id",
			body: `{"token":"t2","role":"ROLE_USER","userId":null,"username":"bob"}`,
			want: Session{Token: "t2", Role: "ROLE_USER", Username: "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp LoginResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if got := resp.Session(); got != tt.want {
				t.Errorf("Session() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestUserIDInvalid(t *testing.T) {
	var id UserID
	if err := json.Unmarshal([]byte(`{"a":1}`), &id); err == nil {
		t.Error("Unmarshal(object) expected an error")
	}
}

func TestStockDecode(t *testing.T) {
	var stocks []Stock
	if err := json.Unmarshal([]byte(`[{"id":1,"symbol":"AAPL","name":"Apple","price":150}]`), &stocks); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(stocks) != 1 {
		t.Fatalf("got %d stocks, want 1", len(stocks))
	}
	s := stocks[0]
	if s.ID != 1 || s.Symbol != "AAPL" || s.Name != "Apple" || !s.Price.Equal(decimal.NewFromInt(150)) {
		t.Errorf("unexpected stock %+v", s)
	}
}

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    time.Time
		wantErr bool
	}{
		{name: "local date time", body: `"2025-03-01T10:15:30"`, want: time.Date(2025, 3, 1, 10, 15, 30, 0, time.UTC)},
		{name: "fractional seconds", body: `"2025-03-01T10:15:30.123"`, want: time.Date(2025, 3, 1, 10, 15, 30, 123000000, time.UTC)},
		{name: "rfc3339", body: `"2025-03-01T10:15:30Z"`, want: time.Date(2025, 3, 1, 10, 15, 30, 0, time.UTC)},
		{name: "empty", body: `""`},
		{name: "garbage", body: `"yesterday"`, wantErr: true},
		{name: "not a string", body: `12`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.body), &ts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !ts.Time.Equal(tt.want) {
				t.Errorf("Unmarshal() = %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		wantErr bool
		wantMsg string
	}{
		{name: "valid credentials", payload: Credentials{Username: "alice", Password: "secret"}},
		{name: "empty username", payload: Credentials{Password: "secret"}, wantErr: true, wantMsg: "username is required"},
		{name: "empty password", payload: Credentials{Username: "alice"}, wantErr: true, wantMsg: "password is required"},
		{name: "both empty", payload: Credentials{}, wantErr: true, wantMsg: "username is required; password is required"},
		{name: "valid stock", payload: StockRequest{Symbol: "AAPL", Name: "Apple", Price: decimal.NewFromInt(150)}},
		{name: "zero price", payload: StockRequest{Symbol: "AAPL", Name: "Apple"}, wantErr: true, wantMsg: "price must be greater than 0"},
		{name: "valid trade", payload: TradeRequest{Symbol: "AAPL", Quantity: 3, Price: decimal.RequireFromString("149.5")}},
		{name: "zero quantity", payload: TradeRequest{Symbol: "AAPL", Price: decimal.NewFromInt(1)}, wantErr: true, wantMsg: "quantity must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() error %v does not match ErrValidation", err)
			}
			if err.Error() != tt.wantMsg {
				t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		value string
		cur   string
		want  string
	}{
		{value: "150", cur: "USD", want: "$150.00"},
		{value: "149.999", cur: "USD", want: "$150.00"},
		{value: "12.5", cur: "", want: "$12.50"},
		{value: "-1234.5", cur: "USD", want: "-$1,234.50"},
		{value: "100000000000000000", cur: "USD", want: "$100,000,000,000,000,000.00"},
		{value: "-92233720368547758.08", cur: "USD", want: "-$92,233,720,368,547,758.08"},
		{value: "1234567890123456789", cur: "EUR", want: "€1,234,567,890,123,456,789.00"},
	}
	for _, tt := range tests {
		t.Run(tt.value+tt.cur, func(t *testing.T) {
			if got := M(decimal.RequireFromString(tt.value), tt.cur).String(); got != tt.want {
				t.Errorf("M(%s, %q) = %q, want %q", tt.value, tt.cur, got, tt.want)
			}
		})
	}
}
