package model

import (
	"time"

	"gorm.io/datatypes"
)

// WatchlistEntry is one active watchlist slot per (ticker, user).
// PriceWhenAdded is fixed at admission; CurrentPrice and PriceChange are
// rewritten by the price-refresh pass. Entries are evicted unconditionally
// once DateAdded passes the retention threshold.
type WatchlistEntry struct {
	ID                     uint           `gorm:"primarykey" json:"id"`
	Ticker                 string         `gorm:"type:varchar(10);not null;uniqueIndex:idx_watchlists_ticker_user" json:"ticker"`
	UserID                 uint           `gorm:"column:userid;not null;uniqueIndex:idx_watchlists_ticker_user" json:"userId"`
	DateAdded              time.Time      `gorm:"column:date_added;not null" json:"dateAdded"`
	Reason                 string         `gorm:"type:text" json:"reason"`
	Sector                 string         `gorm:"type:varchar(100)" json:"sector"`
	Industry               string         `gorm:"type:varchar(100)" json:"industry"`
	PriceWhenAdded         float64        `gorm:"type:decimal(10,2);not null" json:"priceWhenAdded"`
	CurrentPrice           float64        `gorm:"type:decimal(10,2);not null" json:"currentPrice"`
	WeekHigh52             float64        `gorm:"column:week_high_52;type:decimal(10,2)" json:"weekHigh52"`
	PercentBelow52WeekHigh float64        `gorm:"column:percent_below_52_week_high;type:decimal(5,2)" json:"percentBelow52WeekHigh"`
	AvgClose               float64        `gorm:"type:decimal(10,2)" json:"avgClose"`
	PriceChange            *float64       `gorm:"type:decimal(5,2)" json:"priceChange,omitempty"`
	Metrics                datatypes.JSON `gorm:"type:jsonb" json:"metrics,omitempty"`
	CreatedAt              time.Time      `gorm:"autoCreateTime" json:"-"`
	UpdatedAt              time.Time      `gorm:"autoUpdateTime" json:"lastUpdated"`
}

func (WatchlistEntry) TableName() string {
	return "watchlists"
}

// WatchlistMetrics is the shape stored in the Metrics JSONB column.
type WatchlistMetrics struct {
	VolumeIncreasePct float64 `json:"volumeIncreasePct"`
	Industry          string  `json:"industry"`
	PriceToAvgRatio   float64 `json:"priceToAvgRatio"`
}
