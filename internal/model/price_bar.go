package model

import "time"

// PriceBar is one daily OHLCV bar. Rows are written once by the ingestion
// pipeline and never mutated; (ticker, date) is the natural key.
type PriceBar struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	Ticker        string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_stock_prices_ticker_date" json:"ticker"`
	Date          time.Time `gorm:"type:date;not null;uniqueIndex:idx_stock_prices_ticker_date" json:"date"`
	Open          float64   `gorm:"type:decimal(10,2);not null" json:"open"`
	High          float64   `gorm:"type:decimal(10,2);not null" json:"high"`
	Low           float64   `gorm:"type:decimal(10,2);not null" json:"low"`
	Close         float64   `gorm:"type:decimal(10,2);not null" json:"close"`
	Volume        int64     `gorm:"not null" json:"volume"`
	AdjustedClose float64   `gorm:"type:decimal(10,2)" json:"adjustedClose"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"-"`
}

func (PriceBar) TableName() string {
	return "stock_prices"
}
