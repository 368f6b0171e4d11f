package strategy

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Loss cut candidates are 0.1% .. 10.0% in 0.1% steps.
const lossCutCandidates = 100

// lossCutCandidate returns the i-th scanned loss cut rate (1-based) as a fraction.
func lossCutCandidate(i int) decimal.Decimal {
	return decimal.New(int64(i), -3)
}

// growth is ln((1+P/100)^W * (1-L/100)^(100-W)) with P, W and L in percent.
func growth(profitPer, winPer, lossPer decimal.Decimal) decimal.Decimal {
	gain := ln(one.Add(profitPer.DivRound(hundred, precision))).Mul(winPer)
	loss := ln(one.Sub(lossPer.DivRound(hundred, precision))).Mul(hundred.Sub(winPer))
	return gain.Add(loss)
}

// lossCutScore computes 100 * ((1+P)^W * (1-L)^(100-W)) ^ 0.01, the theoretical
// percentage the bankroll reaches. All arguments are fractions; the formula
// is evaluated in percent units.
func lossCutScore(profitBookingRate, winRate, lossCutRate decimal.Decimal) decimal.Decimal {
	g := growth(profitBookingRate.Mul(hundred), winRate.Mul(hundred), lossCutRate.Mul(hundred))
	return hundred.Mul(exp(g.DivRound(hundred, precision))).Round(precision)
}

// SolveLossCut returns the largest loss cut rate on the 0.1% grid whose score
// is at least 100. The score decreases as the loss cut widens, so the grid is
// binary searched.
func SolveLossCut(profitBookingRate, winRate decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateRate("profit_booking_rate", profitBookingRate); err != nil {
		return decimal.Zero, err
	}
	if winRate.IsNegative() || winRate.GreaterThan(one) {
		return decimal.Zero, &InvalidRateError{Name: "win_rate", Rate: winRate, Bounds: closedUnitInterval}
	}

	profitPer := profitBookingRate.Mul(hundred)
	winPer := winRate.Mul(hundred)

	// score >= 100 exactly when growth >= 0.
	clears := func(i int) bool {
		return !growth(profitPer, winPer, lossCutCandidate(i).Mul(hundred)).IsNegative()
	}

	// First 0-based index j whose candidate j+1 fails; candidate j is then the answer.
	j := sort.Search(lossCutCandidates, func(j int) bool {
		return !clears(j + 1)
	})
	if j == 0 {
		return decimal.Zero, &ThresholdUnsolvableError{ProfitBookingRate: profitBookingRate, WinRate: winRate}
	}
	return lossCutCandidate(j), nil
}
