package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/stocksboard"
	"github.com/etnz/stocksboard/api"
	"github.com/etnz/stocksboard/logger"
	"github.com/etnz/stocksboard/session"
	"github.com/shopspring/decimal"
)

// PortfolioView shows the holdings of the session user and their total
// profit.
type PortfolioView struct {
	Lifetime

	client *api.Client
	store  *session.Store

	holdings []stocksboard.Holding
	total    decimal.Decimal
}

// NewPortfolioView returns an unmounted portfolio view.
func NewPortfolioView(client *api.Client, store *session.Store) *PortfolioView {
	return &PortfolioView{client: client, store: store}
}

// Holdings returns the last fetched holdings.
func (v *PortfolioView) Holdings() []stocksboard.Holding { return v.holdings }

// TotalProfit returns the last fetched total profit.
func (v *PortfolioView) TotalProfit() decimal.Decimal { return v.total }

// Load fetches the holdings then the total profit. Both are replaced only
// when both calls succeed; on failure the view is emptied.
func (v *PortfolioView) Load(ctx context.Context) error {
	s, err := v.store.Get(ctx)
	if err != nil {
		return err
	}
	if s.IsZero() {
		v.holdings, v.total = nil, decimal.Zero
		return nil
	}
	var (
		holdings []stocksboard.Holding
		total    decimal.Decimal
	)
	err = v.do(ctx, func(ctx context.Context) (err error) {
		if holdings, err = v.client.Portfolio(ctx, s); err != nil {
			return err
		}
		total, err = v.client.TotalProfit(ctx, s)
		return err
	})
	if errors.Is(err, stocksboard.ErrUnmounted) {
		return err
	}
	if err != nil {
		log := logger.Get()
		log.Warn().Err(err).Str("view", "portfolio").Msg("failed to fetch")
		v.holdings, v.total = nil, decimal.Zero
		return err
	}
	v.holdings, v.total = holdings, total
	return nil
}

// TradesView shows the trade history of the session user and places orders.
type TradesView struct {
	*List[stocksboard.Trade]
	client *api.Client
}

// NewTradesView returns an unmounted trade history. Trades cannot be
// deleted.
func NewTradesView(client *api.Client, store *session.Store) *TradesView {
	return &TradesView{
		List:   NewList[stocksboard.Trade]("trade", store, client.TradeHistory, nil),
		client: client,
	}
}

// Buy places a buy order then re-fetches the history.
func (v *TradesView) Buy(ctx context.Context, req stocksboard.TradeRequest) (stocksboard.Trade, error) {
	return v.place(ctx, stocksboard.Buy, req)
}

// Sell places a sell order then re-fetches the history.
func (v *TradesView) Sell(ctx context.Context, req stocksboard.TradeRequest) (stocksboard.Trade, error) {
	return v.place(ctx, stocksboard.Sell, req)
}

func (v *TradesView) place(ctx context.Context, kind string, req stocksboard.TradeRequest) (stocksboard.Trade, error) {
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := stocksboard.Validate(req); err != nil {
		return stocksboard.Trade{}, err
	}
	s, err := v.store.Get(ctx)
	if err != nil {
		return stocksboard.Trade{}, err
	}
	var t stocksboard.Trade
	err = v.do(ctx, func(ctx context.Context) (err error) {
		if kind == stocksboard.Sell {
			t, err = v.client.Sell(ctx, s, req)
		} else {
			t, err = v.client.Buy(ctx, s, req)
		}
		return err
	})
	if err != nil {
		return stocksboard.Trade{}, err
	}
	if err := v.Reload(ctx); err != nil {
		return t, fmt.Errorf("order placed but the history could not be refreshed: %w", err)
	}
	return t, nil
}
