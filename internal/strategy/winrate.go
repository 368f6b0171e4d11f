package strategy

import "github.com/shopspring/decimal"

// Trade is a completed buy/sell pair.
type Trade struct {
	Buy  decimal.Decimal
	Sell decimal.Decimal
}

// NeutralWinRate is assumed while a user has no completed trades.
var NeutralWinRate = decimal.New(5, -1)

// EstimateWinRate returns the fraction of trades that sold above the buy price.
func EstimateWinRate(trades []Trade) decimal.Decimal {
	if len(trades) == 0 {
		return NeutralWinRate
	}

	var wins int64
	for _, t := range trades {
		if t.Sell.GreaterThan(t.Buy) {
			wins++
		}
	}
	return decimal.NewFromInt(wins).DivRound(decimal.NewFromInt(int64(len(trades))), precision)
}
