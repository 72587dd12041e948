package dto

// Candidate is a ticker that passed the screener's admission thresholds
// over the trailing one-year window.
type Candidate struct {
	Ticker        string  `json:"ticker"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry"`
	WeekHigh52    float64 `json:"weekHigh52"`
	AvgClose      float64 `json:"avgClose"`
	AvgVolume     float64 `json:"avgVolume"`
	CurrentPrice  float64 `json:"currentPrice"`
	CurrentVolume int64   `json:"currentVolume"`
}

// Drawdown is the absolute distance from the 52-week high; candidates are
// screened largest drawdown first.
func (c Candidate) Drawdown() float64 {
	return c.WeekHigh52 - c.CurrentPrice
}

type RefreshResult struct {
	AddedCount int `json:"addedCount"`
}

type PriceUpdateResult struct {
	UpdatedCount int `json:"updatedCount"`
}

type CleanupResult struct {
	RemovedCount int64 `json:"removedCount"`
}
