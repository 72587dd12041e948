// Package indicator contains the pure technical-analysis kernels. All
// functions take a newest-first slice of daily bars and return values for
// the most recent point only; callers recompute per as-of date when they
// need history. Insufficient data never produces an error — every function
// degrades to a documented default so signal interpretation downstream
// falls back to NEUTRAL instead of failing.
package indicator

import (
	"math"
	"sort"

	"stock-screener/internal/model"
)

const (
	DefaultRSIPeriod    = 14
	DefaultVolumePeriod = 20

	// recentHighWindow is the current bar plus the 20 preceding ones,
	// matching the rolling MAX the breakout view used.
	recentHighWindow = 21
)

type MACDResult struct {
	MACDLine   float64 `json:"value"`
	SignalLine float64 `json:"signal"`
	Histogram  float64 `json:"histogram"`
}

type VolumeStatus string

const (
	VolumeNormal       VolumeStatus = "Normal"
	VolumeAboveAverage VolumeStatus = "Above Average"
	VolumeHigh         VolumeStatus = "High"
	VolumeVeryHigh     VolumeStatus = "Very High"
)

// Rank orders volume statuses for sorting breakout output.
func (v VolumeStatus) Rank() int {
	switch v {
	case VolumeVeryHigh:
		return 3
	case VolumeHigh:
		return 2
	case VolumeAboveAverage:
		return 1
	default:
		return 0
	}
}

type VolumeStats struct {
	Current int64        `json:"current"`
	Average float64      `json:"average"`
	StdDev  float64      `json:"stdDev"`
	Status  VolumeStatus `json:"status"`
}

type Level struct {
	Level    float64 `json:"level"`
	Distance float64 `json:"distance"`
}

type SupportResistance struct {
	Support    Level `json:"support"`
	Resistance Level `json:"resistance"`
}

// RSI computes the relative strength index over the most recent `period`
// close-to-close deltas. With fewer than period+1 bars it returns the
// neutral default of 50. A zero loss sum is substituted with 1 before the
// ratio — an approximation carried over from the production formula, so an
// all-gains series does not read exactly 100.
func RSI(bars []model.PriceBar, period int) float64 {
	if period <= 0 || len(bars) < period+1 {
		return 50
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := bars[i-1].Close - bars[i].Close
		if change >= 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	if avgLoss == 0 {
		avgLoss = 1
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// EMA computes an exponential moving average over a newest-first value
// slice. The accumulator seeds with the oldest value and walks toward the
// newest. A single-element slice returns that element unchanged — MACD's
// signal line relies on this.
func EMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}

	multiplier := 2 / (float64(period) + 1)
	ema := values[len(values)-1]

	for i := len(values) - 2; i >= 0; i-- {
		ema = (values[i]-ema)*multiplier + ema
	}

	return ema
}

// MACD computes the 12/26 EMA difference for the latest point. The signal
// line is the 9-period EMA of the single-element series [macdLine], which
// collapses to the MACD line itself and pins the histogram at zero. Clients
// were written against this behavior, so it stays.
func MACD(bars []model.PriceBar) MACDResult {
	if len(bars) == 0 {
		return MACDResult{}
	}

	closes := Closes(bars)
	macdLine := EMA(closes, 12) - EMA(closes, 26)
	signalLine := EMA([]float64{macdLine}, 9)

	return MACDResult{
		MACDLine:   macdLine,
		SignalLine: signalLine,
		Histogram:  macdLine - signalLine,
	}
}

// SMA averages the close of the first `period` bars. Returns 0 when the
// window is short.
func SMA(bars []model.PriceBar, period int) float64 {
	if period <= 0 || len(bars) < period {
		return 0
	}

	var sum float64
	for _, bar := range bars[:period] {
		sum += bar.Close
	}
	return sum / float64(period)
}

// ClassifyVolume maps a current/average volume ratio to a categorical
// status with fixed multiplier thresholds.
func ClassifyVolume(current int64, average float64) VolumeStatus {
	cur := float64(current)
	switch {
	case cur > average*2:
		return VolumeVeryHigh
	case cur > average*1.5:
		return VolumeHigh
	case cur > average:
		return VolumeAboveAverage
	default:
		return VolumeNormal
	}
}

// ComputeVolumeStats computes the rolling mean and population standard
// deviation of volume over the trailing `period` bars (or all available
// bars when fewer) and classifies the latest volume against the mean.
func ComputeVolumeStats(bars []model.PriceBar, period int) VolumeStats {
	if len(bars) == 0 || period <= 0 {
		return VolumeStats{Status: VolumeNormal}
	}

	window := bars
	if len(window) > period {
		window = window[:period]
	}

	var sum float64
	for _, bar := range window {
		sum += float64(bar.Volume)
	}
	avg := sum / float64(len(window))

	var variance float64
	for _, bar := range window {
		d := float64(bar.Volume) - avg
		variance += d * d
	}
	variance /= float64(len(window))

	current := bars[0].Volume
	return VolumeStats{
		Current: current,
		Average: avg,
		StdDev:  math.Sqrt(variance),
		Status:  ClassifyVolume(current, avg),
	}
}

// ComputeSupportResistance picks the closest close strictly below and
// strictly above the current price from the whole window. A missing level
// is reported as 0 with a 0 distance.
func ComputeSupportResistance(bars []model.PriceBar, currentPrice float64) SupportResistance {
	levels := Closes(bars)
	sort.Float64s(levels)

	var support, resistance float64
	for i := len(levels) - 1; i >= 0; i-- {
		if levels[i] < currentPrice {
			support = levels[i]
			break
		}
	}
	for _, level := range levels {
		if level > currentPrice {
			resistance = level
			break
		}
	}

	sr := SupportResistance{
		Support:    Level{Level: support},
		Resistance: Level{Level: resistance},
	}
	if support != 0 && currentPrice != 0 {
		sr.Support.Distance = (support - currentPrice) / currentPrice * 100
	}
	if resistance != 0 && currentPrice != 0 {
		sr.Resistance.Distance = (resistance - currentPrice) / currentPrice * 100
	}
	return sr
}

// RecentHigh returns the maximum close over the current bar and the 20
// preceding ones.
func RecentHigh(bars []model.PriceBar) float64 {
	if len(bars) == 0 {
		return 0
	}

	window := bars
	if len(window) > recentHighWindow {
		window = window[:recentHighWindow]
	}

	high := window[0].Close
	for _, bar := range window[1:] {
		if bar.Close > high {
			high = bar.Close
		}
	}
	return high
}

// PriceChangePct is the day-over-day percent change of the latest close.
// Returns 0 without a previous bar or with a zero previous close.
func PriceChangePct(bars []model.PriceBar) float64 {
	if len(bars) < 2 || bars[1].Close == 0 {
		return 0
	}
	return (bars[0].Close - bars[1].Close) / bars[1].Close * 100
}

// Closes extracts the close column from a bar slice, preserving order.
func Closes(bars []model.PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}
	return closes
}
