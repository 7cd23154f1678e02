package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/etnz/stocksboard"
	"github.com/shopspring/decimal"
)

// --- auth ---

// Login exchanges credentials for a login response. It is not authenticated.
func (c *Client) Login(ctx context.Context, cred stocksboard.Credentials) (stocksboard.LoginResponse, error) {
	var resp stocksboard.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, "", cred, &resp)
	return resp, err
}

// Register creates a new account. It is not authenticated.
func (c *Client) Register(ctx context.Context, cred stocksboard.Credentials) (stocksboard.Registration, error) {
	var resp stocksboard.Registration
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, "", cred, &resp)
	return resp, err
}

// --- stocks ---

// Stocks lists all stocks.
func (c *Client) Stocks(ctx context.Context, s stocksboard.Session) ([]stocksboard.Stock, error) {
	var stocks []stocksboard.Stock
	err := c.do(ctx, http.MethodGet, "/api/stocks", nil, s.Token, nil, &stocks)
	return stocks, err
}

// Stock returns a single stock.
func (c *Client) Stock(ctx context.Context, s stocksboard.Session, id int64) (stocksboard.Stock, error) {
	var stock stocksboard.Stock
	err := c.do(ctx, http.MethodGet, "/api/stocks/"+itoa(id), nil, s.Token, nil, &stock)
	return stock, err
}

// StockBySymbol returns a single stock by symbol.
func (c *Client) StockBySymbol(ctx context.Context, s stocksboard.Session, symbol string) (stocksboard.Stock, error) {
	var stock stocksboard.Stock
	err := c.do(ctx, http.MethodGet, "/api/stocks/symbol/"+url.PathEscape(symbol), nil, s.Token, nil, &stock)
	return stock, err
}

// CreateStock adds a stock (admin).
func (c *Client) CreateStock(ctx context.Context, s stocksboard.Session, req stocksboard.StockRequest) (stocksboard.Stock, error) {
	var stock stocksboard.Stock
	err := c.do(ctx, http.MethodPost, "/api/stocks", nil, s.Token, req, &stock)
	return stock, err
}

// UpdateStock replaces a stock's symbol, name and price (admin).
func (c *Client) UpdateStock(ctx context.Context, s stocksboard.Session, id int64, req stocksboard.StockRequest) (stocksboard.Stock, error) {
	var stock stocksboard.Stock
	err := c.do(ctx, http.MethodPut, "/api/stocks/"+itoa(id), nil, s.Token, req, &stock)
	return stock, err
}

// DeleteStock deletes a stock (admin).
func (c *Client) DeleteStock(ctx context.Context, s stocksboard.Session, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/stocks/"+itoa(id), nil, s.Token, nil, nil)
}

// UpdatePrices triggers the backend price recomputation for every stock and
// returns the backend message.
func (c *Client) UpdatePrices(ctx context.Context, s stocksboard.Session) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodPost, "/api/stocks/update-prices", nil, s.Token, struct{}{}, &resp)
	return resp.Message, err
}

// --- users ---

// Users lists the user accounts (admin).
func (c *Client) Users(ctx context.Context, s stocksboard.Session) ([]stocksboard.User, error) {
	var users []stocksboard.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, s.Token, nil, &users)
	return users, err
}

// DeleteUser deletes a user account. The backend deletes its portfolio and
// trades too (admin).
func (c *Client) DeleteUser(ctx context.Context, s stocksboard.Session, id int64) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+itoa(id), nil, s.Token, nil, nil)
}

// --- portfolio and trades ---

// Portfolio lists the active holdings of the session user.
func (c *Client) Portfolio(ctx context.Context, s stocksboard.Session) ([]stocksboard.Holding, error) {
	var holdings []stocksboard.Holding
	err := c.do(ctx, http.MethodGet, "/api/portfolio", userQuery(s), s.Token, nil, &holdings)
	return holdings, err
}

// TotalProfit returns the realized plus unrealized profit of the session
// user, cleared positions included.
func (c *Client) TotalProfit(ctx context.Context, s stocksboard.Session) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := c.do(ctx, http.MethodGet, "/api/portfolio/total-profit", userQuery(s), s.Token, nil, &total)
	return total, err
}

// Buy executes a buy for the session user.
func (c *Client) Buy(ctx context.Context, s stocksboard.Session, req stocksboard.TradeRequest) (stocksboard.Trade, error) {
	return c.trade(ctx, s, "/api/trades/buy", req)
}

// Sell executes a sell for the session user.
func (c *Client) Sell(ctx context.Context, s stocksboard.Session, req stocksboard.TradeRequest) (stocksboard.Trade, error) {
	return c.trade(ctx, s, "/api/trades/sell", req)
}

func (c *Client) trade(ctx context.Context, s stocksboard.Session, path string, req stocksboard.TradeRequest) (stocksboard.Trade, error) {
	var trade stocksboard.Trade
	err := c.do(ctx, http.MethodPost, path, userQuery(s), s.Token, req, &trade)
	return trade, err
}

// TradeHistory lists the trades of the session user.
func (c *Client) TradeHistory(ctx context.Context, s stocksboard.Session) ([]stocksboard.Trade, error) {
	var trades []stocksboard.Trade
	err := c.do(ctx, http.MethodGet, "/api/trades/history", userQuery(s), s.Token, nil, &trades)
	return trades, err
}

func userQuery(s stocksboard.Session) url.Values {
	return url.Values{"userId": {s.UserID}}
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
