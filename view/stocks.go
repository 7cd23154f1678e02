package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/logger"
	"github.com/etnz/stocksboard/session"
	"github.com/shopspring/decimal"
)

// StocksView is the admin dashboard: the stock list, single deletes and the
// price refresh.
type StocksView struct {
	*List[stocksboard.Stock]
	client *api.Client
}

// NewStocksView returns an unmounted admin dashboard.
func NewStocksView(client *api.Client, store *session.Store) *StocksView {
	return &StocksView{
		List:   NewList[stocksboard.Stock]("stock", store, client.Stocks, client.DeleteStock),
		client: client,
	}
}

// UpdatePrices asks the backend to recompute every price, then re-fetches the
// list. It returns a single notification for both steps.
func (v *StocksView) UpdatePrices(ctx context.Context) (string, error) {
	s, err := v.store.Get(ctx)
	if err != nil {
		return "", err
	}
	var msg string
	err = v.do(ctx, func(ctx context.Context) (err error) {
		msg, err = v.client.UpdatePrices(ctx, s)
		return err
	})
	if err != nil {
		return "", err
	}
	if err := v.Reload(ctx); err != nil {
		return "", fmt.Errorf("prices updated but the list could not be refreshed: %w", err)
	}
	log := logger.Get()
	log.Info().Int("stocks", v.Len()).Msg("prices refreshed")
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "Stock prices refreshed!", nil
	}
	return strings.TrimSuffix(msg, ".") + ". Stock prices refreshed!", nil
}

// MarketView is the read-only stock list shown to users.
type MarketView struct {
	list *List[stocksboard.Stock]
}

// NewMarketView returns an unmounted market view.
func NewMarketView(client *api.Client, store *session.Store) *MarketView {
	return &MarketView{list: NewList[stocksboard.Stock]("stock", store, client.Stocks, nil)}
}

func (v *MarketView) Mount(ctx context.Context)               { v.list.Mount(ctx) }
func (v *MarketView) Unmount()                                { v.list.Unmount() }
func (v *MarketView) Load(ctx context.Context) error          { return v.list.Load(ctx) }
func (v *MarketView) Reload(ctx context.Context) error        { return v.list.Reload(ctx) }
func (v *MarketView) Items() []stocksboard.Stock              { return v.list.Items() }
func (v *MarketView) Find(id int64) (stocksboard.Stock, bool) { return v.list.Find(id) }

// StockForm adds a stock, or edits one when ID is set.
type StockForm struct {
	Lifetime

	ID     int64 // 0 adds a new stock
	Symbol string
	Name   string
	Price  decimal.Decimal

	client *api.Client
	store  *session.Store
}

// NewStockForm returns an empty, unmounted form.
func NewStockForm(client *api.Client, store *session.Store) *StockForm {
	return &StockForm{client: client, store: store}
}

// Editing reports whether the form edits an existing stock.
func (f *StockForm) Editing() bool { return f.ID != 0 }

// Load fills the form with the stock id.
func (f *StockForm) Load(ctx context.Context, id int64) error {
	s, err := f.store.Get(ctx)
	if err != nil {
		return err
	}
	var st stocksboard.Stock
	err = f.do(ctx, func(ctx context.Context) (err error) {
		st, err = f.client.Stock(ctx, s, id)
		return err
	})
	if err != nil {
		return err
	}
	f.ID, f.Symbol, f.Name, f.Price = st.ID, st.Symbol, st.Name, st.Price
	return nil
}

// Request returns the payload for the current fields. Symbols are upper
// cased.
func (f *StockForm) Request() stocksboard.StockRequest {
	return stocksboard.StockRequest{
		Symbol: strings.ToUpper(strings.TrimSpace(f.Symbol)),
		Name:   strings.TrimSpace(f.Name),
		Price:  f.Price,
	}
}

// Submit validates the fields then creates or updates the stock. Invalid
// fields fail with ErrValidation and no request.
func (f *StockForm) Submit(ctx context.Context) (stocksboard.Stock, error) {
	req := f.Request()
	if err := stocksboard.Validate(req); err != nil {
		return stocksboard.Stock{}, err
	}
	s, err := f.store.Get(ctx)
	if err != nil {
		return stocksboard.Stock{}, err
	}
	var st stocksboard.Stock
	err = f.do(ctx, func(ctx context.Context) (err error) {
		if f.Editing() {
			st, err = f.client.UpdateStock(ctx, s, f.ID, req)
		} else {
			st, err = f.client.CreateStock(ctx, s, req)
		}
		return err
	})
	if err != nil {
		return stocksboard.Stock{}, err
	}
	f.ID, f.Symbol, f.Name, f.Price = st.ID, st.Symbol, st.Name, st.Price
	return st, nil
}
