package service

import (
	"context"
	"testing"
	"time"

	"stock-screener/config"
	"stock-screener/internal/model"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
)

func testConfig() *config.Config {
	return &config.Config{
		Scheduler: config.Scheduler{
			MaxConcurrency:  4,
			TimeoutDuration: time.Minute,
		},
		Screener: config.Screener{
			PriceDropThreshold:      0.25,
			RecoveryThreshold:       0.70,
			VolumeIncreaseThreshold: 1.5,
			MinPrice:                85,
			LookbackDays:            365,
		},
		Watchlist: config.WatchlistConfig{
			RetentionDays: 90,
			DefaultUserID: 1,
		},
		Cache: config.Cache{
			DefaultExpiration: time.Minute,
			CleanupInterval:   time.Minute,
			BreakoutTTL:       time.Minute,
		},
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

type fakePriceRepo struct {
	bars map[string][]model.PriceBar
	errs map[string]error
}

func (f *fakePriceRepo) GetBars(ctx context.Context, ticker string, limit int) ([]model.PriceBar, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	bars := f.bars[ticker]
	if limit > 0 && len(bars) > limit {
		bars = bars[:limit]
	}
	return bars, nil
}

func (f *fakePriceRepo) GetBarsSince(ctx context.Context, ticker string, since time.Time) ([]model.PriceBar, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	return f.bars[ticker], nil
}

func (f *fakePriceRepo) GetLatest(ctx context.Context, ticker string) (*model.PriceBar, error) {
	if err := f.errs[ticker]; err != nil {
		return nil, err
	}
	bars := f.bars[ticker]
	if len(bars) == 0 {
		return nil, nil
	}
	bar := bars[0]
	return &bar, nil
}

type fakeCompanyRepo struct {
	companies []model.Company
}

func (f *fakeCompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	return f.companies, nil
}

func (f *fakeCompanyRepo) Get(ctx context.Context, ticker string) (*model.Company, error) {
	for _, c := range f.companies {
		if c.Ticker == ticker {
			company := c
			return &company, nil
		}
	}
	return nil, nil
}

type fakeWatchlistRepo struct {
	entries []model.WatchlistEntry
	nextID  uint

	findErrs   map[string]error
	createErrs map[string]error

	priceUpdates map[uint][2]float64
	deleted      int64
}

func (f *fakeWatchlistRepo) List(ctx context.Context, userID uint) ([]model.WatchlistEntry, error) {
	var out []model.WatchlistEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeWatchlistRepo) FindRecentEntry(ctx context.Context, ticker string, userID uint, since time.Time) (*model.WatchlistEntry, error) {
	if err := f.findErrs[ticker]; err != nil {
		return nil, err
	}
	for _, e := range f.entries {
		if e.Ticker == ticker && e.UserID == userID && !e.DateAdded.Before(since) {
			entry := e
			return &entry, nil
		}
	}
	return nil, nil
}

func (f *fakeWatchlistRepo) Create(ctx context.Context, entry *model.WatchlistEntry, opts ...utils.DBOption) (bool, error) {
	if err := f.createErrs[entry.Ticker]; err != nil {
		return false, err
	}
	for _, e := range f.entries {
		if e.Ticker == entry.Ticker && e.UserID == entry.UserID {
			return false, nil
		}
	}
	f.nextID++
	entry.ID = f.nextID
	f.entries = append(f.entries, *entry)
	return true, nil
}

func (f *fakeWatchlistRepo) UpdatePrice(ctx context.Context, id uint, currentPrice, priceChange float64, opts ...utils.DBOption) error {
	if f.priceUpdates == nil {
		f.priceUpdates = make(map[uint][2]float64)
	}
	f.priceUpdates[id] = [2]float64{currentPrice, priceChange}
	return nil
}

func (f *fakeWatchlistRepo) DeleteOlderThan(ctx context.Context, userID uint, cutoff time.Time) (int64, error) {
	var kept []model.WatchlistEntry
	var removed int64
	for _, e := range f.entries {
		if e.UserID == userID && e.DateAdded.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	f.deleted += removed
	return removed, nil
}

type fakeUnitOfWork struct{}

func (f *fakeUnitOfWork) Run(fn func(opts ...utils.DBOption) error) error {
	return fn()
}
