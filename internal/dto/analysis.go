package dto

import (
	"time"

	"stock-screener/internal/breakout"
	"stock-screener/internal/indicator"
	"stock-screener/internal/signal"
)

// Indicators carries the raw indicator values for one ticker. Field names
// match the payload the historical API served.
type Indicators struct {
	RSI               float64                     `json:"rsi"`
	MACD              indicator.MACDResult        `json:"macd"`
	MovingAverages    MovingAverages              `json:"movingAverages"`
	Volume            VolumeAnalysis              `json:"volume"`
	SupportResistance indicator.SupportResistance `json:"supportResistance"`
}

type MovingAverages struct {
	MA20  float64 `json:"ma20"`
	MA50  float64 `json:"ma50"`
	MA200 float64 `json:"ma200"`
}

type VolumeAnalysis struct {
	Current int64                  `json:"current"`
	Average float64                `json:"average"`
	Status  indicator.VolumeStatus `json:"status"`
}

type Signals struct {
	RSI               signal.TradingSignal `json:"rsi"`
	MACD              signal.TradingSignal `json:"macd"`
	MovingAverages    signal.TradingSignal `json:"movingAverages"`
	Volume            signal.TradingSignal `json:"volume"`
	SupportResistance signal.TradingSignal `json:"supportResistance"`
}

type TradingSignalReport struct {
	Ticker     string     `json:"ticker"`
	Timestamp  time.Time  `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
	Signals    Signals    `json:"signals"`
}

type RSIResult struct {
	Ticker string  `json:"ticker"`
	Period int     `json:"period"`
	Value  float64 `json:"value"`
}

type MACDReport struct {
	Ticker string               `json:"ticker"`
	MACD   indicator.MACDResult `json:"macd"`
}

type MovingAveragesReport struct {
	Ticker         string         `json:"ticker"`
	MovingAverages MovingAverages `json:"movingAverages"`
}

type VolumeReport struct {
	Ticker string         `json:"ticker"`
	Volume VolumeAnalysis `json:"volume"`
}

// BreakoutSummary groups qualifying tickers by trend status.
type BreakoutSummary struct {
	TrendStatus breakout.TrendStatus `json:"trend_status"`
	Count       int                  `json:"count"`
	Tickers     []string             `json:"symbols"`
}

// StockAnalysis is the per-ticker breakout record plus the nested detail
// block the historical endpoint exposed.
type StockAnalysis struct {
	breakout.Record
	AnalysisDetails AnalysisDetails `json:"analysis_details"`
}

type AnalysisDetails struct {
	MovingAverages     MADetail       `json:"moving_averages"`
	VolumeAnalysis     VolumeDetail   `json:"volume_analysis"`
	BreakoutIndicators BreakoutDetail `json:"breakout_indicators"`
}

type MADetail struct {
	SMA20 float64              `json:"sma_20"`
	SMA50 float64              `json:"sma_50"`
	Trend breakout.TrendStatus `json:"trend"`
}

type VolumeDetail struct {
	CurrentVolume int64                  `json:"current_volume"`
	AvgVolume20   float64                `json:"avg_volume_20"`
	Status        indicator.VolumeStatus `json:"status"`
}

type BreakoutDetail struct {
	IsPotentialBreakout bool    `json:"is_potential_breakout"`
	PriceChangePct      float64 `json:"price_change_pct"`
}
