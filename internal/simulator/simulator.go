package simulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camuig/shuumulator/internal/logger"
	"github.com/camuig/shuumulator/internal/minkabu"
	"github.com/camuig/shuumulator/internal/storage"
	"github.com/camuig/shuumulator/internal/strategy"
)

type PriceSource interface {
	Quote(ctx context.Context, code string) (minkabu.Quote, error)
}

type PositionStore interface {
	ListStocks(ctx context.Context) ([]storage.Stock, error)
	MostRecentPosition(ctx context.Context, stockID, userID uint) (*storage.Position, error)
	OpenPosition(ctx context.Context, stockID, userID uint, price decimal.Decimal, at time.Time) (uint, error)
	ClosePosition(ctx context.Context, positionID uint, price decimal.Decimal, at time.Time) error
	OpenPositions(ctx context.Context, userID uint) ([]storage.Position, error)
	CompletedPositions(ctx context.Context, userID uint) ([]storage.Position, error)
	SaveStockLog(ctx context.Context, stockID uint, price decimal.Decimal) error
}

type Notifier interface {
	NotifyBuy(code, name string, price decimal.Decimal)
	NotifySell(code, name string, buy, sell decimal.Decimal)
	NotifyThresholds(profitBooking, winRate, lossCut decimal.Decimal)
	NotifyCycle(buy, sell, hold, failed int)
	NotifyError(context string, err error)
}

type Options struct {
	ProfitBookingRate decimal.Decimal
	UserID            uint
	// Wait before every price fetch so the source is not hammered.
	FetchDelay time.Duration
}

type Simulator struct {
	prices   PriceSource
	store    PositionStore
	notifier Notifier
	opts     Options
	logger   *logger.Logger
	now      func() time.Time
}

func New(prices PriceSource, store PositionStore, notifier Notifier, opts Options, log *logger.Logger) *Simulator {
	return &Simulator{
		prices:   prices,
		store:    store,
		notifier: notifier,
		opts:     opts,
		logger:   log,
		now:      time.Now,
	}
}

// Outcome is what happened to one stock during a cycle.
type Outcome struct {
	Stock  storage.Stock
	Quote  minkabu.Quote
	Action strategy.Action
	Err    error
}

type CycleResult struct {
	Thresholds strategy.Thresholds
	Outcomes   []Outcome
}

func (r *CycleResult) Count(kind strategy.ActionKind) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Action.Kind == kind {
			n++
		}
	}
	return n
}

// Thresholds computes the rate parameters for a run from the user's completed trades.
func (s *Simulator) Thresholds(ctx context.Context) (strategy.Thresholds, error) {
	if err := strategy.ValidateRate("profit_booking_rate", s.opts.ProfitBookingRate); err != nil {
		return strategy.Thresholds{}, err
	}

	completed, err := s.store.CompletedPositions(ctx, s.opts.UserID)
	if err != nil {
		return strategy.Thresholds{}, fmt.Errorf("fetch completed positions: %w", err)
	}

	trades := make([]strategy.Trade, 0, len(completed))
	for _, p := range completed {
		if p.Sell == nil {
			continue
		}
		trades = append(trades, strategy.Trade{Buy: p.Buy, Sell: *p.Sell})
	}

	return strategy.ComputeThresholds(s.opts.ProfitBookingRate, trades)
}

// RunCycle computes thresholds once, then observes and decides every watched
// stock in turn. A failure on one stock does not stop the others, but is
// reported in the returned error.
func (s *Simulator) RunCycle(ctx context.Context) (*CycleResult, error) {
	th, err := s.Thresholds(ctx)
	if err != nil {
		s.notifier.NotifyError("thresholds", err)
		return nil, fmt.Errorf("compute thresholds: %w", err)
	}
	s.logger.Info("thresholds computed",
		"profit_booking_rate", th.ProfitBookingRate.String(),
		"win_rate", th.WinRate.String(),
		"loss_cut_rate", th.LossCutRate.String())
	s.notifier.NotifyThresholds(th.ProfitBookingRate, th.WinRate, th.LossCutRate)

	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	s.logger.Info("target stocks", "count", len(stocks))

	result := &CycleResult{Thresholds: th}
	var errs []error
	for _, stock := range stocks {
		if err := s.wait(ctx); err != nil {
			return result, errors.Join(append(errs, err)...)
		}

		o := s.processStock(ctx, stock, th)
		result.Outcomes = append(result.Outcomes, o)
		if o.Err != nil {
			s.stockLogger(stock).Error("stock processing failed", "error", o.Err)
			s.notifier.NotifyError("stock "+stock.Code, o.Err)
			errs = append(errs, fmt.Errorf("stock %s: %w", stock.Code, o.Err))
		}
	}

	buys, sells, holds := result.Count(strategy.OpenPosition), result.Count(strategy.ClosePosition), result.Count(strategy.NoAction)
	s.logger.Info("cycle finished", "buy", buys, "sell", sells, "hold", holds, "failed", len(errs))
	s.notifier.NotifyCycle(buys, sells, holds, len(errs))

	return result, errors.Join(errs...)
}

func (s *Simulator) processStock(ctx context.Context, stock storage.Stock, th strategy.Thresholds) Outcome {
	o := Outcome{Stock: stock}

	quote, err := s.prices.Quote(ctx, stock.Code)
	if err != nil {
		o.Err = fmt.Errorf("quote: %w", err)
		return o
	}
	o.Quote = quote

	if err := s.store.SaveStockLog(ctx, stock.ID, quote.Price); err != nil {
		o.Err = fmt.Errorf("save stock log: %w", err)
		return o
	}

	// Always re-read: the store is the only source of truth for open positions.
	latest, err := s.store.MostRecentPosition(ctx, stock.ID, s.opts.UserID)
	if err != nil {
		o.Err = fmt.Errorf("fetch most recent position: %w", err)
		return o
	}

	var state *strategy.PositionState
	if latest != nil {
		state = &strategy.PositionState{ID: latest.ID, Buy: latest.Buy, Closed: !latest.IsOpen()}
	}

	action, err := strategy.Decide(stock.ID, quote.Price, state, th)
	if err != nil {
		o.Err = fmt.Errorf("decide: %w", err)
		return o
	}
	o.Action = action

	if err := s.apply(ctx, stock, quote, latest, action); err != nil {
		o.Err = err
	}
	return o
}

func (s *Simulator) apply(ctx context.Context, stock storage.Stock, quote minkabu.Quote, latest *storage.Position, action strategy.Action) error {
	name := displayName(stock, quote)
	log := s.stockLogger(stock).With("name", name)

	switch action.Kind {
	case strategy.OpenPosition:
		id, err := s.store.OpenPosition(ctx, stock.ID, s.opts.UserID, action.Price, s.now())
		if err != nil {
			return fmt.Errorf("open position: %w", err)
		}
		log.Info("BUY", "position_id", id, "price", action.Price.String())
		s.notifier.NotifyBuy(stock.Code, name, action.Price)
	case strategy.ClosePosition:
		if err := s.store.ClosePosition(ctx, action.PositionID, action.Price, s.now()); err != nil {
			return fmt.Errorf("close position: %w", err)
		}
		log.Info("SELL", "position_id", action.PositionID,
			"buy", latest.Buy.String(), "sell", action.Price.String())
		s.notifier.NotifySell(stock.Code, name, latest.Buy, action.Price)
	default:
		log.Info("HOLD", "price", quote.Price.String())
	}
	return nil
}

func (s *Simulator) stockLogger(stock storage.Stock) *logger.Logger {
	return s.logger.With("stock_id", stock.ID, "code", stock.Code)
}

// displayName prefers the scraped name, which is more likely to be current
// than the stored one.
func displayName(stock storage.Stock, quote minkabu.Quote) string {
	if quote.Name != "" {
		return quote.Name
	}
	return stock.Name
}

func (s *Simulator) wait(ctx context.Context) error {
	if s.opts.FetchDelay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.opts.FetchDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
