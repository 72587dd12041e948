package indicator

import (
	"testing"
	"time"

	"stock-screener/internal/model"

	"github.com/stretchr/testify/assert"
)

// barsFromCloses builds a newest-first bar slice from newest-first closes
// with a constant volume.
func barsFromCloses(closes []float64, volume int64) []model.PriceBar {
	bars := make([]model.PriceBar, len(closes))
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.PriceBar{
			Ticker: "TEST",
			Date:   base.AddDate(0, 0, -i),
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		period int
		want   float64
	}{
		{
			name:   "insufficient bars returns neutral default",
			closes: []float64{100, 99, 98},
			period: 14,
			want:   50,
		},
		{
			name:   "zero period returns neutral default",
			closes: []float64{100, 99},
			period: 0,
			want:   50,
		},
		{
			name: "all gains reads 50 because zero loss is substituted with one",
			closes: []float64{
				119, 118, 117, 116, 115, 114, 113, 112,
				111, 110, 109, 108, 107, 106, 105,
			},
			period: 14,
			want:   50,
		},
		{
			name:   "mixed gains and losses",
			closes: []float64{105, 100, 102, 101},
			period: 3,
			want:   75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSI(barsFromCloses(tt.closes, 1000), tt.period)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{
		50, 80, 20, 90, 10, 70, 30, 60,
		40, 55, 45, 65, 35, 75, 25,
	}
	got := RSI(barsFromCloses(closes, 1000), 14)
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestEMA(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		period int
		want   float64
	}{
		{name: "empty returns zero", values: nil, period: 12, want: 0},
		{name: "single element returns that element", values: []float64{42.5}, period: 9, want: 42.5},
		{name: "two elements walk from oldest to newest", values: []float64{2, 1}, period: 3, want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EMA(tt.values, tt.period), 1e-9)
		})
	}
}

func TestSMA(t *testing.T) {
	bars := barsFromCloses([]float64{10, 20, 30, 40}, 1000)

	assert.Equal(t, 0.0, SMA(bars, 5), "short window returns zero")
	assert.Equal(t, 0.0, SMA(bars, 0))
	assert.InDelta(t, 20.0, SMA(bars, 3), 1e-9)
	assert.InDelta(t, 25.0, SMA(bars, 4), 1e-9)
}

func TestMACD(t *testing.T) {
	t.Run("empty input returns zero result", func(t *testing.T) {
		assert.Equal(t, MACDResult{}, MACD(nil))
	})

	t.Run("constant series has no divergence", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100
		}
		got := MACD(barsFromCloses(closes, 1000))
		assert.InDelta(t, 0, got.MACDLine, 1e-9)
		assert.InDelta(t, 0, got.Histogram, 1e-9)
	})

	t.Run("signal line collapses to the MACD line", func(t *testing.T) {
		closes := make([]float64, 40)
		for i := range closes {
			closes[i] = 100 + float64(40-i)
		}
		got := MACD(barsFromCloses(closes, 1000))
		assert.InDelta(t, got.MACDLine, got.SignalLine, 1e-9)
		assert.InDelta(t, 0, got.Histogram, 1e-9)
	})
}

func TestClassifyVolume(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		average float64
		want    VolumeStatus
	}{
		{name: "more than double average", current: 210, average: 100, want: VolumeVeryHigh},
		{name: "exactly double is not very high", current: 200, average: 100, want: VolumeHigh},
		{name: "above one and a half times", current: 160, average: 100, want: VolumeHigh},
		{name: "above average", current: 110, average: 100, want: VolumeAboveAverage},
		{name: "equal to average is normal", current: 100, average: 100, want: VolumeNormal},
		{name: "below average", current: 90, average: 100, want: VolumeNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVolume(tt.current, tt.average))
		})
	}
}

func TestVolumeStatusRank(t *testing.T) {
	assert.Greater(t, VolumeVeryHigh.Rank(), VolumeHigh.Rank())
	assert.Greater(t, VolumeHigh.Rank(), VolumeAboveAverage.Rank())
	assert.Greater(t, VolumeAboveAverage.Rank(), VolumeNormal.Rank())
}

func TestComputeVolumeStats(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		got := ComputeVolumeStats(nil, 20)
		assert.Equal(t, VolumeNormal, got.Status)
		assert.Equal(t, int64(0), got.Current)
	})

	t.Run("mean and population stddev over the window", func(t *testing.T) {
		bars := []model.PriceBar{
			{Close: 100, Volume: 100},
			{Close: 100, Volume: 200},
		}
		got := ComputeVolumeStats(bars, 20)
		assert.Equal(t, int64(100), got.Current)
		assert.InDelta(t, 150, got.Average, 1e-9)
		assert.InDelta(t, 50, got.StdDev, 1e-9)
		assert.Equal(t, VolumeNormal, got.Status)
	})

	t.Run("window truncates to the period", func(t *testing.T) {
		bars := make([]model.PriceBar, 30)
		for i := range bars {
			bars[i] = model.PriceBar{Close: 100, Volume: 1000}
		}
		bars[25].Volume = 1_000_000
		got := ComputeVolumeStats(bars, 20)
		assert.InDelta(t, 1000, got.Average, 1e-9, "bars past the period are ignored")
	})
}

func TestComputeSupportResistance(t *testing.T) {
	t.Run("closest levels either side of price", func(t *testing.T) {
		bars := barsFromCloses([]float64{100, 90, 110, 80, 120}, 1000)
		got := ComputeSupportResistance(bars, 100)

		assert.InDelta(t, 90, got.Support.Level, 1e-9)
		assert.InDelta(t, -10, got.Support.Distance, 1e-9)
		assert.InDelta(t, 110, got.Resistance.Level, 1e-9)
		assert.InDelta(t, 10, got.Resistance.Distance, 1e-9)
	})

	t.Run("missing resistance reports zero", func(t *testing.T) {
		bars := barsFromCloses([]float64{100, 90, 80}, 1000)
		got := ComputeSupportResistance(bars, 100)

		assert.InDelta(t, 90, got.Support.Level, 1e-9)
		assert.Equal(t, 0.0, got.Resistance.Level)
		assert.Equal(t, 0.0, got.Resistance.Distance)
	})

	t.Run("missing support reports zero", func(t *testing.T) {
		bars := barsFromCloses([]float64{100, 110, 120}, 1000)
		got := ComputeSupportResistance(bars, 100)

		assert.Equal(t, 0.0, got.Support.Level)
		assert.InDelta(t, 110, got.Resistance.Level, 1e-9)
	})
}

func TestRecentHigh(t *testing.T) {
	t.Run("empty returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, RecentHigh(nil))
	})

	t.Run("includes the current bar", func(t *testing.T) {
		bars := barsFromCloses([]float64{120, 100, 110}, 1000)
		assert.InDelta(t, 120, RecentHigh(bars), 1e-9)
	})

	t.Run("window truncates past 21 bars", func(t *testing.T) {
		closes := make([]float64, 30)
		for i := range closes {
			closes[i] = 100
		}
		closes[25] = 500
		bars := barsFromCloses(closes, 1000)
		assert.InDelta(t, 100, RecentHigh(bars), 1e-9)
	})
}

func TestPriceChangePct(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{name: "single bar returns zero", closes: []float64{100}, want: 0},
		{name: "zero previous close returns zero", closes: []float64{100, 0}, want: 0},
		{name: "gain", closes: []float64{110, 100}, want: 10},
		{name: "loss", closes: []float64{90, 100}, want: -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceChangePct(barsFromCloses(tt.closes, 1000))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
