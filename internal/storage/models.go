package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a watched stock. Code is the identifier used for price lookups.
type Stock struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Code string `gorm:"uniqueIndex;not null" json:"code"`
	Name string `gorm:"not null" json:"name"`
}

// Position is one simulated buy-then-sell cycle. It is open while Sell is nil.
type Position struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	StockID  uint             `gorm:"index;not null" json:"stock_id"`
	UserID   uint             `gorm:"index;not null" json:"user_id"`
	Buy      decimal.Decimal  `gorm:"type:numeric(20,4);not null" json:"buy"`
	BoughtAt time.Time        `gorm:"not null" json:"bought_at"`
	Sell     *decimal.Decimal `gorm:"type:numeric(20,4)" json:"sell,omitempty"`
	SoldAt   *time.Time       `json:"sold_at,omitempty"`
}

func (p *Position) IsOpen() bool {
	return p.Sell == nil || p.SoldAt == nil
}

// StockLog records every observed price.
type StockLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	StockID uint            `gorm:"index;not null" json:"stock_id"`
	Price   decimal.Decimal `gorm:"type:numeric(20,4);not null" json:"price"`
}

// CompletedPosition is a closed position joined with its stock.
type CompletedPosition struct {
	PositionID uint
	Code       string
	Name       string
	Buy        decimal.Decimal
	BoughtAt   time.Time
	Sell       decimal.Decimal
	SoldAt     time.Time
}
