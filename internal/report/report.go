package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoTrades        = errors.New("no completed trades to aggregate")
	ErrInvalidBuyPrice = errors.New("buy price must be positive")
)

var hundred = decimal.NewFromInt(100)

// Decimal places kept by divisions; matches a 28-digit decimal context.
const divisionPlaces = 28

// Record is a closed position joined with its stock.
type Record struct {
	Code     string
	Name     string
	Buy      decimal.Decimal
	BoughtAt time.Time
	Sell     decimal.Decimal
	SoldAt   time.Time
}

// Row is one line of the trade table. Numbers are converted from exact
// decimals only at this boundary.
type Row struct {
	Code                 string
	Name                 string
	Buy                  float64
	BoughtAt             time.Time
	Sell                 float64
	SoldAt               time.Time
	Difference           float64
	DifferencePercentage float64
}

type Summary struct {
	TotalTrades  int
	Wins         int
	Losses       int
	WinRate      float64
	TotalEarning float64
	TotalGain    float64
	TotalLost    float64
}

type Report struct {
	Rows    []Row
	Summary Summary
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// Aggregate folds closed positions into per-trade rows, kept in input order,
// and run-level statistics.
func Aggregate(records []Record) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrNoTrades
	}

	rows := make([]Row, 0, len(records))
	earning := decimal.Zero
	gain := decimal.Zero
	wins := 0

	for i, r := range records {
		if !r.Buy.IsPositive() {
			return nil, fmt.Errorf("record %d (%s): %w, got %s", i, r.Code, ErrInvalidBuyPrice, r.Buy.String())
		}
		diff := r.Sell.Sub(r.Buy)
		pct := diff.DivRound(r.Buy, divisionPlaces).Mul(hundred)

		earning = earning.Add(diff)
		if !diff.IsNegative() {
			gain = gain.Add(diff)
			wins++
		}

		rows = append(rows, Row{
			Code:                 r.Code,
			Name:                 r.Name,
			Buy:                  toFloat(r.Buy),
			BoughtAt:             r.BoughtAt.UTC(),
			Sell:                 toFloat(r.Sell),
			SoldAt:               r.SoldAt.UTC(),
			Difference:           toFloat(diff),
			DifferencePercentage: toFloat(pct),
		})
	}

	total := len(records)
	winRate := decimal.NewFromInt(int64(wins)).DivRound(decimal.NewFromInt(int64(total)), divisionPlaces)

	return &Report{
		Rows: rows,
		Summary: Summary{
			TotalTrades:  total,
			Wins:         wins,
			Losses:       total - wins,
			WinRate:      toFloat(winRate),
			TotalEarning: toFloat(earning),
			TotalGain:    toFloat(gain),
			TotalLost:    toFloat(earning.Sub(gain)),
		},
	}, nil
}
