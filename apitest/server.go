// Package apitest provides an in-memory StocksBoard backend for tests.
//
// It implements the HTTP contract the client consumes, with just enough
// behavior to exercise it: accounts and bearer tokens, role checks on admin
// routes, stocks, users with cascading delete, trades and holdings. It also
// counts calls per route and can be told to fail a route.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/etnz/stocksboard"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Secret signs the tokens issued by the fake backend.
const Secret = "apitest-secret"

type account struct {
	stocksboard.User
	password string
}

type position struct {
	symbol   string
	quantity int64
	avgCost  decimal.Decimal
	realized decimal.Decimal
}

type failure struct {
	status  int
	message string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	accounts  map[string]*account // by username
	aliases   map[string]string   // login name → username
	tokens    map[string]string   // token → username
	stocks    map[int64]stocksboard.Stock
	positions map[int64]map[string]*position // user id → symbol → position
	trades    map[int64][]stocksboard.Trade
	nextID    int64
	calls     map[string]int
	failures  map[string]failure
	prices    func(stocksboard.Stock) decimal.Decimal
}

// New starts a fake backend with a default "admin"/"admin123" administrator.
// The server is closed at the end of the test.
func New(t interface {
	Helper()
	Cleanup(func())
}) *Server {
	t.Helper()
	s := &Server{
		accounts:  make(map[string]*account),
		aliases:   make(map[string]string),
		tokens:    make(map[string]string),
		stocks:    make(map[int64]stocksboard.Stock),
		positions: make(map[int64]map[string]*position),
		trades:    make(map[int64][]stocksboard.Trade),
		calls:     make(map[string]int),
		failures:  make(map[string]failure),
		prices: func(st stocksboard.Stock) decimal.Decimal {
			return st.Price.Mul(decimal.RequireFromString("1.01")).Round(2)
		},
	}
	s.AddUser("admin", "admin123", stocksboard.RoleAdmin)
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

func (s *Server) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.count, s.inject)

	e.POST("/api/auth/login", s.login)
	e.POST("/api/auth/register", s.register)

	authed := e.Group("/api", s.authenticate)
	authed.GET("/stocks", s.listStocks)
	authed.GET("/stocks/:id", s.getStock)
	authed.GET("/stocks/symbol/:symbol", s.getStockBySymbol)
	authed.POST("/stocks", s.createStock, admin)
	authed.PUT("/stocks/:id", s.updateStock, admin)
	authed.DELETE("/stocks/:id", s.deleteStock, admin)
	authed.POST("/stocks/update-prices", s.updatePrices)
	authed.GET("/users", s.listUsers, admin)
	authed.DELETE("/users/:id", s.deleteUser, admin)
	authed.GET("/portfolio", s.portfolio)
	authed.GET("/portfolio/total-profit", s.totalProfit)
	authed.POST("/trades/buy", s.trade(stocksboard.Buy))
	authed.POST("/trades/sell", s.trade(stocksboard.Sell))
	authed.GET("/trades/history", s.history)
	return e
}

// --- test controls ---

// AddUser creates an account and returns its id.
func (s *Server) AddUser(username, password, role string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.accounts[username] = &account{User: stocksboard.User{ID: s.nextID, Username: username, Role: role}, password: password}
	return s.nextID
}

// Alias lets username log in as name too. The login answer still carries
// username.
func (s *Server) Alias(name, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[name] = username
}

// AddStock creates a stock and returns it.
func (s *Server) AddStock(symbol, name, price string) stocksboard.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	st := stocksboard.Stock{ID: s.nextID, Symbol: symbol, Name: name, Price: decimal.RequireFromString(price)}
	s.stocks[st.ID] = st
	return st
}

// Stocks returns the server side stocks ordered by id.
func (s *Server) Stocks() []stocksboard.Stock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedStocks()
}

// HasUser reports whether the account exists server side.
func (s *Server) HasUser(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[username]
	return ok
}

// Token issues a valid token for username, as a login would.
func (s *Server) Token(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[username]
	if !ok {
		panic("apitest: unknown user " + username)
	}
	return s.issue(a)
}

// Session returns a session for username, as a login would.
func (s *Server) Session(username string) stocksboard.Session {
	tok := s.Token(username)
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[username]
	return stocksboard.Session{Token: tok, Role: a.Role, UserID: strconv.FormatInt(a.ID, 10), Username: a.Username}
}

// Calls returns how many requests hit route, formatted as "METHOD /path/:param"
// e.g. "DELETE /api/stocks/:id".
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Fail makes route answer status with message until Recover is called.
func (s *Server) Fail(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// Recover removes the failure set on route.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, route)
}

// --- middlewares ---

func (s *Server) count(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.calls[c.Request().Method+" "+c.Path()]++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		f, ok := s.failures[c.Request().Method+" "+c.Path()]
		s.mu.Unlock()
		if ok {
			return c.JSON(f.status, apiResponse(f.status, f.message))
		}
		return next(c)
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return c.JSON(http.StatusUnauthorized, apiResponse(http.StatusUnauthorized, "Unauthorized: missing token"))
		}
		s.mu.Lock()
		username, ok := s.tokens[parts[1]]
		a := s.accounts[username]
		s.mu.Unlock()
		if !ok || a == nil {
			return c.JSON(http.StatusUnauthorized, apiResponse(http.StatusUnauthorized, "Unauthorized: invalid token"))
		}
		c.Set("account", a)
		return next(c)
	}
}

func admin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		a := c.Get("account").(*account)
		if !stocksboard.IsAdminRole(a.Role) {
			return c.JSON(http.StatusForbidden, apiResponse(http.StatusForbidden, "Forbidden: Access Denied"))
		}
		return next(c)
	}
}

// --- handlers ---

func (s *Server) login(c echo.Context) error {
	var cred stocksboard.Credentials
	if err := c.Bind(&cred); err != nil {
		return badRequest(c, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := cred.Username
	if n, ok := s.aliases[name]; ok {
		name = n
	}
	a, ok := s.accounts[name]
	if !ok {
		return badRequest(c, "Username not found")
	}
	if a.password != cred.Password {
		return badRequest(c, "Invalid password")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Login successful",
		"token":    s.issue(a),
		"role":     a.Role,
		"userId":   a.ID,
		"username": a.Username,
	})
}

func (s *Server) register(c echo.Context) error {
	var cred stocksboard.Credentials
	if err := c.Bind(&cred); err != nil {
		return badRequest(c, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[cred.Username]; exists {
		return badRequest(c, "Username already exists")
	}
	if len(cred.Password) < 6 {
		return badRequest(c, "Password must be at least 6 characters long")
	}
	s.nextID++
	a := &account{User: stocksboard.User{ID: s.nextID, Username: cred.Username, Role: stocksboard.RoleUser}, password: cred.Password}
	s.accounts[a.Username] = a
	return c.JSON(http.StatusOK, map[string]any{"id": a.ID, "username": a.Username})
}

func (s *Server) listStocks(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.sortedStocks())
}

func (s *Server) getStock(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stocks[id]
	if !ok {
		return notFound(c, "Stock not found")
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) getStockBySymbol(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.bySymbol(c.Param("symbol"))
	if !ok {
		return notFound(c, "Stock not found")
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) createStock(c echo.Context) error {
	var req stocksboard.StockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bySymbol(req.Symbol); exists {
		return c.JSON(http.StatusConflict, apiResponse(http.StatusConflict, "Stock symbol already exists"))
	}
	s.nextID++
	st := stocksboard.Stock{ID: s.nextID, Symbol: req.Symbol, Name: req.Name, Price: req.Price}
	s.stocks[st.ID] = st
	return c.JSON(http.StatusOK, st)
}

func (s *Server) updateStock(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req stocksboard.StockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[id]; !ok {
		return notFound(c, "Stock not found")
	}
	st := stocksboard.Stock{ID: id, Symbol: req.Symbol, Name: req.Name, Price: req.Price}
	s.stocks[id] = st
	return c.JSON(http.StatusOK, st)
}

func (s *Server) deleteStock(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stocks[id]; !ok {
		return notFound(c, "Stock not found")
	}
	delete(s.stocks, id)
	return c.NoContent(http.StatusOK)
}

func (s *Server) updatePrices(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, st := range s.stocks {
		st.Price = s.prices(st)
		s.stocks[id] = st
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Update Stock Prices Successful"})
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]stocksboard.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		if !stocksboard.IsAdminRole(a.Role) {
			users = append(users, a.User)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return c.JSON(http.StatusOK, users)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, a := range s.accounts {
		if a.ID != id {
			continue
		}
		delete(s.accounts, name)
		delete(s.positions, id)
		delete(s.trades, id)
		for tok, u := range s.tokens {
			if u == name {
				delete(s.tokens, tok)
			}
		}
		return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "User deleted"))
	}
	return notFound(c, "User not found")
}

func (s *Server) portfolio(c echo.Context) error {
	a, err := s.owner(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var holdings []stocksboard.Holding
	for _, p := range s.sortedPositions(a.ID) {
		if p.quantity == 0 {
			continue
		}
		st, _ := s.bySymbol(p.symbol)
		unrealized := st.Price.Sub(p.avgCost).Mul(decimal.NewFromInt(p.quantity)).Round(2)
		holdings = append(holdings, stocksboard.Holding{
			Symbol:           st.Symbol,
			Name:             st.Name,
			Quantity:         p.quantity,
			AvgCost:          p.avgCost.Round(2),
			CurrentPrice:     st.Price.Round(2),
			RealizedProfit:   p.realized.Round(2),
			UnrealizedProfit: unrealized,
			TotalProfit:      p.realized.Add(unrealized).Round(2),
		})
	}
	if holdings == nil {
		holdings = []stocksboard.Holding{}
	}
	return c.JSON(http.StatusOK, holdings)
}

func (s *Server) totalProfit(c echo.Context) error {
	a, err := s.owner(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, p := range s.positions[a.ID] {
		st, _ := s.bySymbol(p.symbol)
		total = total.Add(p.realized).Add(st.Price.Sub(p.avgCost).Mul(decimal.NewFromInt(p.quantity)))
	}
	return c.JSON(http.StatusOK, total.Round(2))
}

func (s *Server) trade(kind string) echo.HandlerFunc {
	return func(c echo.Context) error {
		a, err := s.owner(c)
		if err != nil {
			return err
		}
		var req stocksboard.TradeRequest
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "invalid body")
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		st, ok := s.bySymbol(req.Symbol)
		if !ok {
			return notFound(c, "Stock not found")
		}
		if s.positions[a.ID] == nil {
			s.positions[a.ID] = make(map[string]*position)
		}
		p := s.positions[a.ID][st.Symbol]
		qty := decimal.NewFromInt(req.Quantity)
		switch kind {
		case stocksboard.Buy:
			if p == nil {
				p = &position{symbol: st.Symbol}
				s.positions[a.ID][st.Symbol] = p
			}
			cost := p.avgCost.Mul(decimal.NewFromInt(p.quantity)).Add(req.Price.Mul(qty))
			p.quantity += req.Quantity
			p.avgCost = cost.Div(decimal.NewFromInt(p.quantity))
		case stocksboard.Sell:
			if p == nil || p.quantity < req.Quantity {
				return badRequest(c, "Insufficient shares to sell")
			}
			p.quantity -= req.Quantity
			p.realized = p.realized.Add(req.Price.Sub(p.avgCost).Mul(qty))
		}
		s.nextID++
		tr := stocksboard.Trade{
			ID:          s.nextID,
			Type:        kind,
			Quantity:    req.Quantity,
			Price:       req.Price,
			StockSymbol: st.Symbol,
			StockName:   st.Name,
			Timestamp:   stocksboard.Timestamp{Time: time.Now().UTC().Truncate(time.Second)},
		}
		s.trades[a.ID] = append(s.trades[a.ID], tr)
		return c.JSON(http.StatusOK, tr)
	}
}

func (s *Server) history(c echo.Context) error {
	a, err := s.owner(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	trades := s.trades[a.ID]
	if trades == nil {
		trades = []stocksboard.Trade{}
	}
	return c.JSON(http.StatusOK, trades)
}

// --- helpers ---

// issue returns a signed token for a. Callers hold s.mu.
func (s *Server) issue(a *account) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  a.Username,
		"role": a.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(10 * time.Hour).Unix(),
		"jti":  strconv.Itoa(len(s.tokens) + 1),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	if err != nil {
		panic(fmt.Sprintf("apitest: cannot sign token: %v", err))
	}
	s.tokens[tok] = a.Username
	return tok
}

// owner returns the account designated by the userId query parameter. Only
// the account itself may see its portfolio and trades.
func (s *Server) owner(c echo.Context) (*account, error) {
	a := c.Get("account").(*account)
	id, err := strconv.ParseInt(c.QueryParam("userId"), 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}
	if id != a.ID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Forbidden: not your account")
	}
	return a, nil
}

func (s *Server) sortedStocks() []stocksboard.Stock {
	stocks := make([]stocksboard.Stock, 0, len(s.stocks))
	for _, st := range s.stocks {
		stocks = append(stocks, st)
	}
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].ID < stocks[j].ID })
	return stocks
}

func (s *Server) sortedPositions(userID int64) []*position {
	var ps []*position
	for _, p := range s.positions[userID] {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].symbol < ps[j].symbol })
	return ps
}

func (s *Server) bySymbol(symbol string) (stocksboard.Stock, bool) {
	for _, st := range s.stocks {
		if strings.EqualFold(st.Symbol, symbol) {
			return st, true
		}
	}
	return stocksboard.Stock{}, false
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func apiResponse(status int, message string) map[string]any {
	return map[string]any{"status": status, "message": message, "data": nil}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, apiResponse(http.StatusBadRequest, message))
}

func notFound(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, apiResponse(http.StatusNotFound, message))
}
