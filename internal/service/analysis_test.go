package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-screener/internal/breakout"
	"stock-screener/internal/model"
	"stock-screener/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// risingBars is a 60-bar steady riser with a volume spike on the latest
// bar; it qualifies as a potential breakout.
func risingBars(ticker string) []model.PriceBar {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, 60)
	for i := range bars {
		bars[i] = model.PriceBar{
			Ticker: ticker,
			Date:   base.AddDate(0, 0, -i),
			Close:  100 - 0.5*float64(i),
			Volume: 1000,
		}
	}
	bars[0].Volume = 2000
	return bars
}

func fallingBars(ticker string) []model.PriceBar {
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, 60)
	for i := range bars {
		bars[i] = model.PriceBar{
			Ticker: ticker,
			Date:   base.AddDate(0, 0, -i),
			Close:  100 + 0.5*float64(i),
			Volume: 1000,
		}
	}
	return bars
}

func newAnalysisFixture(t *testing.T, companies []model.Company, prices *fakePriceRepo) *analysisService {
	t.Helper()
	c := cache.NewCache(time.Minute, time.Minute)
	c.Flush()
	return &analysisService{
		cfg:           testConfig(),
		log:           testLogger(t),
		inmemoryCache: c,
		priceRepo:     prices,
		companyRepo:   &fakeCompanyRepo{companies: companies},
	}
}

func TestGetTradingSignals(t *testing.T) {
	t.Run("unknown ticker", func(t *testing.T) {
		svc := newAnalysisFixture(t, nil, &fakePriceRepo{})
		_, err := svc.GetTradingSignals(context.Background(), "NOPE")
		assert.True(t, errors.Is(err, ErrStockNotFound))
	})

	t.Run("composes indicators and signals", func(t *testing.T) {
		svc := newAnalysisFixture(t, nil, &fakePriceRepo{
			bars: map[string][]model.PriceBar{"UP": risingBars("UP")},
		})

		report, err := svc.GetTradingSignals(context.Background(), "UP")
		require.NoError(t, err)
		assert.Equal(t, "UP", report.Ticker)
		assert.WithinDuration(t, time.Now(), report.Timestamp, time.Minute)

		// All-gains series of +0.5 steps: avg gain 0.5 against the
		// substituted loss of 1 reads 100 - 100/1.5.
		assert.InDelta(t, 100.0/3.0, report.Indicators.RSI, 1e-9)
		assert.InDelta(t, 95.25, report.Indicators.MovingAverages.MA20, 1e-9)
		assert.Equal(t, int64(2000), report.Indicators.Volume.Current)

		// Only 60 bars, so the 200-day average is unavailable.
		assert.Equal(t, "Insufficient data", report.Signals.MovingAverages.Message)
		assert.NotEmpty(t, report.Signals.RSI.Signal)
		assert.NotEmpty(t, report.Signals.Volume.Signal)
	})
}

func TestGetRSI(t *testing.T) {
	svc := newAnalysisFixture(t, nil, &fakePriceRepo{
		bars: map[string][]model.PriceBar{"UP": risingBars("UP")},
	})

	t.Run("unknown ticker", func(t *testing.T) {
		_, err := svc.GetRSI(context.Background(), "NOPE", 14)
		assert.True(t, errors.Is(err, ErrStockNotFound))
	})

	t.Run("zero period falls back to the default", func(t *testing.T) {
		result, err := svc.GetRSI(context.Background(), "UP", 0)
		require.NoError(t, err)
		assert.Equal(t, 14, result.Period)
		assert.InDelta(t, 100.0/3.0, result.Value, 1e-9)
	})
}

func TestGetMACD_SignalLineMirrorsValue(t *testing.T) {
	svc := newAnalysisFixture(t, nil, &fakePriceRepo{
		bars: map[string][]model.PriceBar{"UP": risingBars("UP")},
	})

	result, err := svc.GetMACD(context.Background(), "UP")
	require.NoError(t, err)
	assert.InDelta(t, result.MACD.MACDLine, result.MACD.SignalLine, 1e-9)
	assert.InDelta(t, 0, result.MACD.Histogram, 1e-9)
}

func TestGetBreakoutUniverse(t *testing.T) {
	svc := newAnalysisFixture(t,
		[]model.Company{{Ticker: "DN"}, {Ticker: "ERR"}, {Ticker: "UP"}},
		&fakePriceRepo{
			bars: map[string][]model.PriceBar{
				"UP": risingBars("UP"),
				"DN": fallingBars("DN"),
			},
			errs: map[string]error{"ERR": errors.New("connection reset")},
		},
	)

	records, err := svc.GetBreakoutUniverse(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1, "only qualifying tickers survive; failures are skipped")
	assert.Equal(t, "UP", records[0].Ticker)
	assert.True(t, records[0].PotentialBreakout)
	assert.Equal(t, breakout.TrendStrongUptrend, records[0].TrendStatus)
}

func TestGetBreakoutUniverse_ServesFromCache(t *testing.T) {
	prices := &fakePriceRepo{
		bars: map[string][]model.PriceBar{"UP": risingBars("UP")},
	}
	svc := newAnalysisFixture(t, []model.Company{{Ticker: "UP"}}, prices)

	first, err := svc.GetBreakoutUniverse(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Dropping the data does not change the answer within the TTL.
	prices.bars = map[string][]model.PriceBar{}
	second, err := svc.GetBreakoutUniverse(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetBreakoutSummary(t *testing.T) {
	svc := newAnalysisFixture(t,
		[]model.Company{{Ticker: "UP"}, {Ticker: "DN"}},
		&fakePriceRepo{
			bars: map[string][]model.PriceBar{
				"UP": risingBars("UP"),
				"DN": fallingBars("DN"),
			},
		},
	)

	summary, err := svc.GetBreakoutSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, breakout.TrendStrongUptrend, summary[0].TrendStatus)
	assert.Equal(t, 1, summary[0].Count)
	assert.Equal(t, []string{"UP"}, summary[0].Tickers)
}

func TestGetStockAnalysis(t *testing.T) {
	t.Run("unknown ticker", func(t *testing.T) {
		svc := newAnalysisFixture(t, nil, &fakePriceRepo{})
		_, err := svc.GetStockAnalysis(context.Background(), "NOPE")
		assert.True(t, errors.Is(err, ErrStockNotFound))
	})

	t.Run("nested detail mirrors the record", func(t *testing.T) {
		svc := newAnalysisFixture(t, nil, &fakePriceRepo{
			bars: map[string][]model.PriceBar{"UP": risingBars("UP")},
		})

		analysis, err := svc.GetStockAnalysis(context.Background(), "UP")
		require.NoError(t, err)
		assert.Equal(t, "UP", analysis.Ticker)
		assert.True(t, analysis.PotentialBreakout)
		assert.Equal(t, analysis.SMA20, analysis.AnalysisDetails.MovingAverages.SMA20)
		assert.Equal(t, analysis.TrendStatus, analysis.AnalysisDetails.MovingAverages.Trend)
		assert.Equal(t, analysis.Volume, analysis.AnalysisDetails.VolumeAnalysis.CurrentVolume)
		assert.Equal(t, analysis.PotentialBreakout, analysis.AnalysisDetails.BreakoutIndicators.IsPotentialBreakout)
	})
}
