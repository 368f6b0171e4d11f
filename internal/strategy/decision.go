package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Thresholds are the per-run rate parameters shared by every watched stock.
type Thresholds struct {
	ProfitBookingRate decimal.Decimal
	WinRate           decimal.Decimal
	LossCutRate       decimal.Decimal
}

// ComputeThresholds derives the loss cut rate for a run from the configured
// profit booking rate and the user's completed trades.
func ComputeThresholds(profitBookingRate decimal.Decimal, trades []Trade) (Thresholds, error) {
	winRate := EstimateWinRate(trades)
	lossCut, err := SolveLossCut(profitBookingRate, winRate)
	if err != nil {
		return Thresholds{}, err
	}
	return Thresholds{
		ProfitBookingRate: profitBookingRate,
		WinRate:           winRate,
		LossCutRate:       lossCut,
	}, nil
}

func (t Thresholds) Validate() error {
	if err := ValidateRate("profit_booking_rate", t.ProfitBookingRate); err != nil {
		return err
	}
	return ValidateRate("loss_cut_rate", t.LossCutRate)
}

func (t Thresholds) ProfitBookingPrice(buy decimal.Decimal) decimal.Decimal {
	return buy.Mul(one.Add(t.ProfitBookingRate))
}

func (t Thresholds) LossCutPrice(buy decimal.Decimal) decimal.Decimal {
	return buy.Mul(one.Sub(t.LossCutRate))
}

// PositionState is the part of the most recent position record the decision needs.
type PositionState struct {
	ID     uint
	Buy    decimal.Decimal
	Closed bool
}

type ActionKind int

const (
	NoAction ActionKind = iota
	OpenPosition
	ClosePosition
)

func (k ActionKind) String() string {
	switch k {
	case OpenPosition:
		return "BUY"
	case ClosePosition:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Action is the instruction produced for one price observation.
// OpenPosition uses StockID and Price, ClosePosition uses PositionID and Price.
type Action struct {
	Kind       ActionKind
	StockID    uint
	PositionID uint
	Price      decimal.Decimal
}

func (a Action) String() string {
	switch a.Kind {
	case OpenPosition:
		return fmt.Sprintf("BUY stock=%d price=%s", a.StockID, a.Price)
	case ClosePosition:
		return fmt.Sprintf("SELL position=%d price=%s", a.PositionID, a.Price)
	default:
		return "HOLD"
	}
}

// Decide turns a price observation into an action. A missing or closed latest
// position always opens a new one at the current price; an open one is closed
// once the price reaches the profit booking or loss cut price.
func Decide(stockID uint, price decimal.Decimal, latest *PositionState, th Thresholds) (Action, error) {
	if err := th.Validate(); err != nil {
		return Action{}, err
	}

	if latest == nil || latest.Closed {
		return Action{Kind: OpenPosition, StockID: stockID, Price: price}, nil
	}

	if price.GreaterThanOrEqual(th.ProfitBookingPrice(latest.Buy)) ||
		price.LessThanOrEqual(th.LossCutPrice(latest.Buy)) {
		return Action{Kind: ClosePosition, StockID: stockID, PositionID: latest.ID, Price: price}, nil
	}
	return Action{Kind: NoAction, StockID: stockID, PositionID: latest.ID}, nil
}
