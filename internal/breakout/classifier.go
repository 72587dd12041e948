// Package breakout classifies the latest bar of a trailing 60-day window
// per ticker, reproducing the aggregates of the old materialized view:
// 20/50-day SMAs, 20-day average volume, day-over-day percent change, and
// the trailing recent high.
package breakout

import (
	"sort"

	"stock-screener/internal/indicator"
	"stock-screener/internal/model"
)

type TrendStatus string

const (
	TrendStrongUptrend   TrendStatus = "Strong uptrend"
	TrendModerateUptrend TrendStatus = "Moderate uptrend"
	TrendNeutral         TrendStatus = "Neutral"
	TrendDowntrend       TrendStatus = "Downtrend"
)

// Rank orders trend statuses for sorting and summary grouping.
func (t TrendStatus) Rank() int {
	switch t {
	case TrendStrongUptrend:
		return 3
	case TrendModerateUptrend:
		return 2
	case TrendNeutral:
		return 1
	default:
		return 0
	}
}

// Record is the derived per-ticker view over the latest bar. It is a
// computed view, never persisted as authoritative state.
type Record struct {
	Ticker            string                 `json:"ticker"`
	Date              string                 `json:"date"`
	Close             float64                `json:"close"`
	Volume            int64                  `json:"volume"`
	SMA20             float64                `json:"sma_20"`
	SMA50             float64                `json:"sma_50"`
	AvgVolume20       float64                `json:"avg_volume_20"`
	PriceChangePct    float64                `json:"price_change_pct"`
	RecentHigh        float64                `json:"recent_high"`
	PotentialBreakout bool                   `json:"potential_breakout"`
	TrendStatus       TrendStatus            `json:"trend_status"`
	VolumeStatus      indicator.VolumeStatus `json:"volume_status"`
}

const (
	volumeBreakoutRatio = 1.5
	recentHighProximity = 0.95
)

// Classify builds a Record from a newest-first bar window. The second
// return value is false when the window is empty.
func Classify(ticker string, bars []model.PriceBar) (Record, bool) {
	if len(bars) == 0 {
		return Record{}, false
	}

	latest := bars[0]
	sma20 := indicator.SMA(bars, 20)
	sma50 := indicator.SMA(bars, 50)
	volumeStats := indicator.ComputeVolumeStats(bars, indicator.DefaultVolumePeriod)
	changePct := indicator.PriceChangePct(bars)
	recentHigh := indicator.RecentHigh(bars)

	rec := Record{
		Ticker:         ticker,
		Date:           latest.Date.Format("2006-01-02"),
		Close:          latest.Close,
		Volume:         latest.Volume,
		SMA20:          sma20,
		SMA50:          sma50,
		AvgVolume20:    volumeStats.Average,
		PriceChangePct: changePct,
		RecentHigh:     recentHigh,
		VolumeStatus:   volumeStats.Status,
	}

	rec.PotentialBreakout = latest.Close > sma20 &&
		sma20 > sma50 &&
		float64(latest.Volume) > volumeStats.Average*volumeBreakoutRatio &&
		latest.Close >= recentHigh*recentHighProximity &&
		changePct > 0

	// First matching rule wins; order matters for tie-breaking.
	switch {
	case latest.Close > sma20 && sma20 > sma50:
		rec.TrendStatus = TrendStrongUptrend
	case latest.Close > sma20:
		rec.TrendStatus = TrendModerateUptrend
	case latest.Close < sma20 && sma20 < sma50:
		rec.TrendStatus = TrendDowntrend
	default:
		rec.TrendStatus = TrendNeutral
	}

	return rec, true
}

// Sort orders records for rendering: volume status desc, trend status desc,
// ticker asc. Output ordering stays reproducible regardless of scan order.
func Sort(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].VolumeStatus.Rank() != records[j].VolumeStatus.Rank() {
			return records[i].VolumeStatus.Rank() > records[j].VolumeStatus.Rank()
		}
		if records[i].TrendStatus.Rank() != records[j].TrendStatus.Rank() {
			return records[i].TrendStatus.Rank() > records[j].TrendStatus.Rank()
		}
		return records[i].Ticker < records[j].Ticker
	})
}
