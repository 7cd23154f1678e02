package renderer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/etnz/stocksboard"
	"github.com/shopspring/decimal"
)

var page = Page{Title: "Admin Dashboard", Username: "alice", Nav: []stocksboard.Route{stocksboard.RouteAdminDashboard, stocksboard.RouteAdminUsers}}

func TestStocks(t *testing.T) {
	got := Stocks(page, []stocksboard.Stock{
		{ID: 1, Symbol: "AAPL", Name: "Apple", Price: decimal.RequireFromString("150")},
		{ID: 2, Symbol: "BRK", Name: "Berkshire | Hathaway", Price: decimal.RequireFromString("412.5")},
	}, Options{})

	want := "**StocksBoard** | alice | `/admin/dashboard` | `/admin/users`\n\n" +
		"# Admin Dashboard\n\n" +
		"| ID | Symbol | Name | Price |\n" +
		"|---:|:---|:---|---:|\n" +
		"| 1 | AAPL | Apple | $150.00 |\n" +
		"| 2 | BRK | Berkshire \\| Hathaway | $412.50 |\n" +
		"\n2 stocks. Edit with `edit-stock <id>`, delete with `delete-stock <id>`.\n\n"
	if got != want {
		t.Errorf("Stocks() =\n%s\nwant:\n%s", got, want)
	}
}

func TestEmptyLists(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"stocks", Stocks(page, nil, Options{}), "No stocks."},
		{"market", Market(page, nil, Options{}), "No stocks."},
		{"users", Users(page, nil), "No users."},
		{"portfolio", Portfolio(page, nil, decimal.Zero, Options{}), "No holdings."},
		{"trades", Trades(page, nil, Options{}), "No trades."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("got:\n%s\nwant it to contain %q", tt.got, tt.want)
			}
			if strings.Contains(tt.got, "error ") {
				t.Errorf("template error:\n%s", tt.got)
			}
		})
	}
}

func TestMarketHasNoAdminHint(t *testing.T) {
	got := Market(page, []stocksboard.Stock{{ID: 1, Symbol: "AAPL", Price: decimal.NewFromInt(1)}}, Options{})
	if strings.Contains(got, "delete-stock") {
		t.Errorf("Market() shows admin actions:\n%s", got)
	}
}

func TestUsers(t *testing.T) {
	got := Users(page, []stocksboard.User{{ID: 2, Username: "bob", Role: "ROLE_USER"}, {ID: 3, Username: "root", Role: "ADMIN"}})
	for _, want := range []string{"| 2 | bob | User |", "| 3 | root | Admin |", "portfolio and trade records"} {
		if !strings.Contains(got, want) {
			t.Errorf("Users() missing %q:\n%s", want, got)
		}
	}
}

func TestPortfolioAndTrades(t *testing.T) {
	h := []stocksboard.Holding{{
		Symbol: "AAPL", Name: "Apple", Quantity: 6,
		AvgCost: decimal.NewFromInt(150), CurrentPrice: decimal.NewFromInt(155),
		RealizedProfit: decimal.NewFromInt(40), UnrealizedProfit: decimal.NewFromInt(30), TotalProfit: decimal.NewFromInt(70),
	}}
	got := Portfolio(page, h, decimal.NewFromInt(70), Options{})
	for _, want := range []string{"| AAPL | Apple | 6 | $150.00 | $155.00 | $40.00 | $30.00 | $70.00 |", "**Total profit:** $70.00"} {
		if !strings.Contains(got, want) {
			t.Errorf("Portfolio() missing %q:\n%s", want, got)
		}
	}

	ts := stocksboard.Timestamp{Time: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)}
	got = Trades(page, []stocksboard.Trade{{ID: 1, Type: stocksboard.Buy, Quantity: 10, Price: decimal.NewFromInt(150), StockSymbol: "AAPL", StockName: "Apple", Timestamp: ts}}, Options{})
	if want := "| 2025-03-01 09:30 | BUY | AAPL | Apple | 10 | $150.00 |"; !strings.Contains(got, want) {
		t.Errorf("Trades() missing %q:\n%s", want, got)
	}
}

func TestWhoami(t *testing.T) {
	guest := Whoami(Page{Title: "Session", Username: "Guest"}, Identity{})
	if !strings.Contains(guest, "Not logged in") {
		t.Errorf("Whoami() without session:\n%s", guest)
	}
	got := Whoami(Page{Title: "Session", Username: "alice"}, Identity{
		Session:   stocksboard.Session{Token: "t1", Role: "ROLE_ADMIN", UserID: "1", Username: "alice"},
		Landing:   stocksboard.RouteAdminDashboard,
		Subject:   "alice",
		ExpiresAt: "2025-03-01 19:00",
		Expired:   true,
	})
	for _, want := range []string{"| Role | Admin (`ROLE_ADMIN`) |", "| Home | `/admin/dashboard` |", "(expired)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Whoami() missing %q:\n%s", want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatAuto, "md": FormatMarkdown, "markdown": FormatMarkdown, "html": FormatHTML, "terminal": FormatTerminal} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) succeeded")
	}
}

func TestPrint(t *testing.T) {
	md := Stocks(page, []stocksboard.Stock{{ID: 1, Symbol: "AAPL", Name: "Apple", Price: decimal.NewFromInt(150)}}, Options{})

	var b bytes.Buffer
	if err := Print(&b, md, FormatAuto); err != nil {
		t.Fatal(err)
	}
	if b.String() != md {
		t.Errorf("Print(auto) to a buffer changed the markdown:\n%s", b.String())
	}

	b.Reset()
	if err := Print(&b, md, FormatHTML); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<table>", "AAPL</td>", "<h1>Admin Dashboard</h1>"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("Print(html) missing %q:\n%s", want, b.String())
		}
	}

	b.Reset()
	if err := Print(&b, md, FormatTerminal); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "AAPL") {
		t.Errorf("Print(terminal) lost the content:\n%s", b.String())
	}
}
