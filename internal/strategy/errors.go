package strategy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrThresholdUnsolvable      = errors.New("loss cut threshold unsolvable")
	ErrInvalidRateConfiguration = errors.New("invalid rate configuration")
)

// ThresholdUnsolvableError is returned when no scanned loss cut candidate
// reaches a score of 100.
type ThresholdUnsolvableError struct {
	ProfitBookingRate decimal.Decimal
	WinRate           decimal.Decimal
}

func (e *ThresholdUnsolvableError) Error() string {
	return fmt.Sprintf("%s: score never reaches 100%% (profit booking rate %s%%, win rate %s%%)",
		ErrThresholdUnsolvable,
		e.ProfitBookingRate.Mul(hundred).String(),
		e.WinRate.Mul(hundred).String())
}

func (e *ThresholdUnsolvableError) Is(target error) bool {
	return target == ErrThresholdUnsolvable
}

const (
	openUnitInterval   = "(0, 1)"
	closedUnitInterval = "[0, 1]"
)

// InvalidRateError reports a rate outside its accepted interval. Bounds is
// the interval in notation, e.g. "(0, 1)".
type InvalidRateError struct {
	Name   string
	Rate   decimal.Decimal
	Bounds string
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("%s: %s must be within %s, got %s", ErrInvalidRateConfiguration, e.Name, e.Bounds, e.Rate.String())
}

func (e *InvalidRateError) Is(target error) bool {
	return target == ErrInvalidRateConfiguration
}

// ValidateRate rejects rates outside the open interval (0, 1).
func ValidateRate(name string, rate decimal.Decimal) error {
	if !rate.IsPositive() || rate.GreaterThanOrEqual(one) {
		return &InvalidRateError{Name: name, Rate: rate, Bounds: openUnitInterval}
	}
	return nil
}
