// Package signal maps indicator values to categorical trading signals with
// fixed thresholds. Interpreters are pure and total: missing or zeroed
// indicator input yields NEUTRAL with an "Insufficient data" message rather
// than an error.
package signal

import (
	"math"
	"strings"

	"stock-screener/internal/indicator"
)

type Action string

const (
	Buy     Action = "BUY"
	Sell    Action = "SELL"
	Neutral Action = "NEUTRAL"
	Alert   Action = "ALERT"
	Caution Action = "CAUTION"
)

type TradingSignal struct {
	Signal  Action `json:"signal"`
	Message string `json:"message"`
}

const (
	rsiOverbought = 70
	rsiOversold   = 30

	volumeAlertRatio   = 2.0
	volumeCautionRatio = 1.5

	// Percent distance at which a support or resistance level is
	// considered "near".
	levelProximityPct = 2.0
)

func insufficientData() TradingSignal {
	return TradingSignal{Signal: Neutral, Message: "Insufficient data"}
}

// FromRSI interprets a relative strength index value.
func FromRSI(rsi float64) TradingSignal {
	switch {
	case rsi > rsiOverbought:
		return TradingSignal{Signal: Sell, Message: "Overbought conditions"}
	case rsi < rsiOversold:
		return TradingSignal{Signal: Buy, Message: "Oversold conditions"}
	default:
		return TradingSignal{Signal: Neutral, Message: "Normal RSI levels"}
	}
}

// FromMACD interprets a MACD result. Both the histogram and the MACD line
// must agree on direction for a directional signal.
func FromMACD(macd indicator.MACDResult) TradingSignal {
	switch {
	case macd.Histogram > 0 && macd.MACDLine > 0:
		return TradingSignal{Signal: Buy, Message: "Bullish MACD crossover"}
	case macd.Histogram < 0 && macd.MACDLine < 0:
		return TradingSignal{Signal: Sell, Message: "Bearish MACD crossover"}
	default:
		return TradingSignal{Signal: Neutral, Message: "No clear MACD signal"}
	}
}

// FromMovingAverages interprets the 20/50/200-day SMA stack against the
// current price. The long-term trend message comes first, then the cross
// message; a golden or death cross decides the signal.
func FromMovingAverages(price, ma20, ma50, ma200 float64) TradingSignal {
	if ma20 == 0 || ma50 == 0 || ma200 == 0 {
		return insufficientData()
	}

	var messages []string
	action := Neutral

	if price > ma200 {
		messages = append(messages, "Price above 200-day moving average")
	}

	if ma20 > ma50 && ma50 > ma200 {
		action = Buy
		messages = append(messages, "Golden cross formation")
	} else if ma20 < ma50 && ma50 < ma200 {
		action = Sell
		messages = append(messages, "Death cross formation")
	}

	if len(messages) == 0 {
		return TradingSignal{Signal: Neutral, Message: "No clear trend"}
	}
	return TradingSignal{Signal: action, Message: strings.Join(messages, "; ")}
}

// FromVolume flags unusual volume relative to the rolling average.
func FromVolume(current int64, average float64) TradingSignal {
	if average == 0 {
		return insufficientData()
	}

	cur := float64(current)
	switch {
	case cur > average*volumeAlertRatio:
		return TradingSignal{Signal: Alert, Message: "Unusually high volume"}
	case cur > average*volumeCautionRatio:
		return TradingSignal{Signal: Caution, Message: "Volume spike detected"}
	default:
		return TradingSignal{Signal: Neutral, Message: "Normal volume levels"}
	}
}

// FromSupportResistance warns when price trades within 2% of a known level.
// Resistance proximity wins over support proximity when both are near.
func FromSupportResistance(sr indicator.SupportResistance) TradingSignal {
	if sr.Support.Level == 0 && sr.Resistance.Level == 0 {
		return insufficientData()
	}

	if sr.Resistance.Level != 0 && math.Abs(sr.Resistance.Distance) < levelProximityPct {
		return TradingSignal{Signal: Caution, Message: "Near resistance level"}
	}
	if sr.Support.Level != 0 && math.Abs(sr.Support.Distance) < levelProximityPct {
		return TradingSignal{Signal: Alert, Message: "Near support level"}
	}
	return TradingSignal{Signal: Neutral, Message: "Away from key levels"}
}
