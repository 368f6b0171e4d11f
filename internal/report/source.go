package report

import (
	"context"
	"fmt"
)

// Source provides a user's closed positions joined with their stocks.
type Source interface {
	CompletedRecords(ctx context.Context, userID uint) ([]Record, error)
}

// Build loads the user's closed positions and aggregates them.
func Build(ctx context.Context, src Source, userID uint) (*Report, error) {
	records, err := src.CompletedRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch completed positions: %w", err)
	}
	return Aggregate(records)
}
