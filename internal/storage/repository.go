package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/camuig/shuumulator/internal/report"
)

var ErrPositionClosed = errors.New("position already closed")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Stocks

func (r *Repository) ListStocks(ctx context.Context) ([]Stock, error) {
	var stocks []Stock
	err := r.db.WithContext(ctx).Order("id").Find(&stocks).Error
	return stocks, err
}

// AddStock inserts a stock or renames an existing one with the same code.
func (r *Repository) AddStock(ctx context.Context, code, name string) (*Stock, error) {
	stock := &Stock{Code: code, Name: name}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(stock).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("code = ?", code).First(stock).Error; err != nil {
		return nil, err
	}
	return stock, nil
}

// Positions

// MostRecentPosition returns the latest position for the stock and user, or
// nil if there is none.
func (r *Repository) MostRecentPosition(ctx context.Context, stockID, userID uint) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).
		Where("stock_id = ? AND user_id = ?", stockID, userID).
		Order("created_at DESC").Order("id DESC").
		First(&pos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pos, nil
}

func (r *Repository) OpenPosition(ctx context.Context, stockID, userID uint, price decimal.Decimal, at time.Time) (uint, error) {
	pos := &Position{
		StockID:  stockID,
		UserID:   userID,
		Buy:      price,
		BoughtAt: at.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(pos).Error; err != nil {
		return 0, err
	}
	return pos.ID, nil
}

// ClosePosition sets the sell price and time. Closing twice is an error.
func (r *Repository) ClosePosition(ctx context.Context, positionID uint, price decimal.Decimal, at time.Time) error {
	soldAt := at.UTC()
	res := r.db.WithContext(ctx).Model(&Position{}).
		Where("id = ? AND sold_at IS NULL", positionID).
		Updates(map[string]any{"sell": price, "sold_at": soldAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("close position %d: %w", positionID, ErrPositionClosed)
	}
	return nil
}

func (r *Repository) OpenPositions(ctx context.Context, userID uint) ([]Position, error) {
	var positions []Position
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sold_at IS NULL", userID).
		Order("id").Find(&positions).Error
	return positions, err
}

func (r *Repository) CompletedPositions(ctx context.Context, userID uint) ([]Position, error) {
	var positions []Position
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sold_at IS NOT NULL", userID).
		Order("id").Find(&positions).Error
	return positions, err
}

func (r *Repository) CompletedPositionsWithStock(ctx context.Context, userID uint) ([]CompletedPosition, error) {
	var rows []CompletedPosition
	err := r.db.WithContext(ctx).
		Table("positions").
		Select("positions.id AS position_id, stocks.code, stocks.name, positions.buy, positions.bought_at, positions.sell, positions.sold_at").
		Joins("JOIN stocks ON stocks.id = positions.stock_id").
		Where("positions.user_id = ? AND positions.sold_at IS NOT NULL", userID).
		Order("positions.sold_at").Order("positions.id").
		Scan(&rows).Error
	return rows, err
}

// Stock logs

func (r *Repository) SaveStockLog(ctx context.Context, stockID uint, price decimal.Decimal) error {
	return r.db.WithContext(ctx).Create(&StockLog{StockID: stockID, Price: price}).Error
}

func (r *Repository) RecentStockLogs(ctx context.Context, stockID uint, limit int) ([]StockLog, error) {
	var logs []StockLog
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Find(&logs).Error
	return logs, err
}

// CompletedRecords returns the user's closed positions in report form.
func (r *Repository) CompletedRecords(ctx context.Context, userID uint) ([]report.Record, error) {
	rows, err := r.CompletedPositionsWithStock(ctx, userID)
	if err != nil {
		return nil, err
	}

	records := make([]report.Record, len(rows))
	for i, row := range rows {
		records[i] = report.Record{
			Code:     row.Code,
			Name:     row.Name,
			Buy:      row.Buy,
			BoughtAt: row.BoughtAt,
			Sell:     row.Sell,
			SoldAt:   row.SoldAt,
		}
	}
	return records, nil
}
