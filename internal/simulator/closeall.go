package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/camuig/shuumulator/internal/storage"
	"github.com/camuig/shuumulator/internal/strategy"
)

// CloseAll closes every open position of the user at the current price.
// With dryRun the prices are fetched but nothing is written.
func (s *Simulator) CloseAll(ctx context.Context, dryRun bool) ([]Outcome, error) {
	open, err := s.store.OpenPositions(ctx, s.opts.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch open positions: %w", err)
	}
	if len(open) == 0 {
		return nil, nil
	}

	stocks, err := s.store.ListStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	byID := make(map[uint]storage.Stock, len(stocks))
	for _, st := range stocks {
		byID[st.ID] = st
	}

	var outcomes []Outcome
	var errs []error
	for i := range open {
		pos := &open[i]
		if err := s.wait(ctx); err != nil {
			return outcomes, errors.Join(append(errs, err)...)
		}

		o := Outcome{Stock: byID[pos.StockID]}
		if o.Stock.ID == 0 {
			o.Err = fmt.Errorf("position %d: unknown stock %d", pos.ID, pos.StockID)
		} else if quote, err := s.prices.Quote(ctx, o.Stock.Code); err != nil {
			o.Err = fmt.Errorf("quote: %w", err)
		} else {
			o.Quote = quote
			o.Action = strategy.Action{Kind: strategy.ClosePosition, StockID: pos.StockID, PositionID: pos.ID, Price: quote.Price}
			if !dryRun {
				o.Err = s.apply(ctx, o.Stock, quote, pos, o.Action)
			}
		}

		if o.Err != nil {
			s.stockLogger(o.Stock).Error("close failed", "position_id", pos.ID, "error", o.Err)
			errs = append(errs, o.Err)
		}
		outcomes = append(outcomes, o)
	}

	return outcomes, errors.Join(errs...)
}
