package service

import (
	"context"
	"sync"
	"time"

	"stock-screener/config"
	"stock-screener/internal/breakout"
	"stock-screener/internal/dto"
	"stock-screener/internal/indicator"
	"stock-screener/internal/repository"
	"stock-screener/internal/signal"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const (
	// signalLookbackBars bounds the window fetched for per-ticker signal
	// computation; enough history for a 200-day SMA.
	signalLookbackBars = 200

	breakoutWindowDays = 60

	keyBreakoutUniverse = "breakout:universe"
)

type AnalysisService interface {
	GetTradingSignals(ctx context.Context, ticker string) (*dto.TradingSignalReport, error)
	GetRSI(ctx context.Context, ticker string, period int) (*dto.RSIResult, error)
	GetMACD(ctx context.Context, ticker string) (*dto.MACDReport, error)
	GetMovingAverages(ctx context.Context, ticker string) (*dto.MovingAveragesReport, error)
	GetVolumeAnalysis(ctx context.Context, ticker string) (*dto.VolumeReport, error)
	GetBreakoutUniverse(ctx context.Context) ([]breakout.Record, error)
	GetBreakoutSummary(ctx context.Context) ([]dto.BreakoutSummary, error)
	GetStockAnalysis(ctx context.Context, ticker string) (*dto.StockAnalysis, error)
}

type analysisService struct {
	cfg           *config.Config
	log           *logger.Logger
	inmemoryCache cache.Cache
	priceRepo     repository.PriceRepository
	companyRepo   repository.CompanyRepository
}

func NewAnalysisService(
	cfg *config.Config,
	log *logger.Logger,
	inmemoryCache cache.Cache,
	priceRepo repository.PriceRepository,
	companyRepo repository.CompanyRepository,
) AnalysisService {
	return &analysisService{
		cfg:           cfg,
		log:           log,
		inmemoryCache: inmemoryCache,
		priceRepo:     priceRepo,
		companyRepo:   companyRepo,
	}
}

func (s *analysisService) GetTradingSignals(ctx context.Context, ticker string) (*dto.TradingSignalReport, error) {
	bars, err := s.priceRepo.GetBars(ctx, ticker, signalLookbackBars)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrStockNotFound
	}

	latestClose := bars[0].Close
	rsi := indicator.RSI(bars, indicator.DefaultRSIPeriod)
	macd := indicator.MACD(bars)
	ma := dto.MovingAverages{
		MA20:  indicator.SMA(bars, 20),
		MA50:  indicator.SMA(bars, 50),
		MA200: indicator.SMA(bars, 200),
	}
	volumeStats := indicator.ComputeVolumeStats(bars, indicator.DefaultVolumePeriod)
	sr := indicator.ComputeSupportResistance(bars, latestClose)

	return &dto.TradingSignalReport{
		Ticker:    ticker,
		Timestamp: time.Now().UTC(),
		Indicators: dto.Indicators{
			RSI:            rsi,
			MACD:           macd,
			MovingAverages: ma,
			Volume: dto.VolumeAnalysis{
				Current: volumeStats.Current,
				Average: volumeStats.Average,
				Status:  volumeStats.Status,
			},
			SupportResistance: sr,
		},
		Signals: dto.Signals{
			RSI:               signal.FromRSI(rsi),
			MACD:              signal.FromMACD(macd),
			MovingAverages:    signal.FromMovingAverages(latestClose, ma.MA20, ma.MA50, ma.MA200),
			Volume:            signal.FromVolume(volumeStats.Current, volumeStats.Average),
			SupportResistance: signal.FromSupportResistance(sr),
		},
	}, nil
}

func (s *analysisService) GetRSI(ctx context.Context, ticker string, period int) (*dto.RSIResult, error) {
	if period <= 0 {
		period = indicator.DefaultRSIPeriod
	}
	bars, err := s.priceRepo.GetBars(ctx, ticker, period+1)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrStockNotFound
	}
	return &dto.RSIResult{Ticker: ticker, Period: period, Value: indicator.RSI(bars, period)}, nil
}

func (s *analysisService) GetMACD(ctx context.Context, ticker string) (*dto.MACDReport, error) {
	bars, err := s.priceRepo.GetBars(ctx, ticker, signalLookbackBars)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrStockNotFound
	}
	return &dto.MACDReport{Ticker: ticker, MACD: indicator.MACD(bars)}, nil
}

func (s *analysisService) GetMovingAverages(ctx context.Context, ticker string) (*dto.MovingAveragesReport, error) {
	bars, err := s.priceRepo.GetBars(ctx, ticker, signalLookbackBars)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrStockNotFound
	}
	return &dto.MovingAveragesReport{
		Ticker: ticker,
		MovingAverages: dto.MovingAverages{
			MA20:  indicator.SMA(bars, 20),
			MA50:  indicator.SMA(bars, 50),
			MA200: indicator.SMA(bars, 200),
		},
	}, nil
}

func (s *analysisService) GetVolumeAnalysis(ctx context.Context, ticker string) (*dto.VolumeReport, error) {
	bars, err := s.priceRepo.GetBars(ctx, ticker, indicator.DefaultVolumePeriod)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, ErrStockNotFound
	}
	stats := indicator.ComputeVolumeStats(bars, indicator.DefaultVolumePeriod)
	return &dto.VolumeReport{
		Ticker: ticker,
		Volume: dto.VolumeAnalysis{
			Current: stats.Current,
			Average: stats.Average,
			Status:  stats.Status,
		},
	}, nil
}

// GetBreakoutUniverse returns the potential-breakout records across the
// full ticker universe, sorted by volume status, trend status, ticker.
func (s *analysisService) GetBreakoutUniverse(ctx context.Context) ([]breakout.Record, error) {
	universe, err := s.breakoutUniverse(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]breakout.Record, 0, len(universe))
	for _, rec := range universe {
		if rec.PotentialBreakout {
			records = append(records, rec)
		}
	}
	breakout.Sort(records)
	return records, nil
}

func (s *analysisService) GetBreakoutSummary(ctx context.Context) ([]dto.BreakoutSummary, error) {
	records, err := s.GetBreakoutUniverse(ctx)
	if err != nil {
		return nil, err
	}

	grouped := make(map[breakout.TrendStatus][]string)
	for _, rec := range records {
		grouped[rec.TrendStatus] = append(grouped[rec.TrendStatus], rec.Ticker)
	}

	order := []breakout.TrendStatus{
		breakout.TrendStrongUptrend,
		breakout.TrendModerateUptrend,
		breakout.TrendNeutral,
		breakout.TrendDowntrend,
	}

	var summary []dto.BreakoutSummary
	for _, trend := range order {
		tickers, ok := grouped[trend]
		if !ok {
			continue
		}
		summary = append(summary, dto.BreakoutSummary{
			TrendStatus: trend,
			Count:       len(tickers),
			Tickers:     tickers,
		})
	}
	return summary, nil
}

func (s *analysisService) GetStockAnalysis(ctx context.Context, ticker string) (*dto.StockAnalysis, error) {
	if universe, found := cache.GetFromCache[map[string]breakout.Record](keyBreakoutUniverse); found {
		if rec, ok := universe[ticker]; ok {
			return buildStockAnalysis(rec), nil
		}
	}

	bars, err := s.priceRepo.GetBarsSince(ctx, ticker, utils.DaysAgo(breakoutWindowDays))
	if err != nil {
		return nil, err
	}
	rec, ok := breakout.Classify(ticker, bars)
	if !ok {
		return nil, ErrStockNotFound
	}
	return buildStockAnalysis(rec), nil
}

// breakoutUniverse computes (or serves from cache) the per-ticker breakout
// record map over the trailing 60-day window. Per-ticker lookups fan out
// with bounded concurrency; a failing ticker is logged and skipped so one
// bad symbol cannot abort the scan.
func (s *analysisService) breakoutUniverse(ctx context.Context) (map[string]breakout.Record, error) {
	if universe, found := cache.GetFromCache[map[string]breakout.Record](keyBreakoutUniverse); found {
		return universe, nil
	}

	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		universe = make(map[string]breakout.Record, len(companies))
		since    = utils.DaysAgo(breakoutWindowDays)
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Scheduler.MaxConcurrency)

	for _, company := range companies {
		if !utils.ShouldContinue(gCtx, s.log) {
			break
		}

		ticker := company.Ticker
		g.Go(func() error {
			bars, err := s.priceRepo.GetBarsSince(gCtx, ticker, since)
			if err != nil {
				s.log.WarnContext(gCtx, "Skipping ticker in breakout scan",
					logger.ErrorField(err),
					logger.StringField("ticker", ticker),
				)
				return nil
			}

			rec, ok := breakout.Classify(ticker, bars)
			if !ok {
				return nil
			}

			mu.Lock()
			universe[ticker] = rec
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.inmemoryCache.Set(keyBreakoutUniverse, universe, s.cfg.Cache.BreakoutTTL)
	return universe, nil
}

func buildStockAnalysis(rec breakout.Record) *dto.StockAnalysis {
	return &dto.StockAnalysis{
		Record: rec,
		AnalysisDetails: dto.AnalysisDetails{
			MovingAverages: dto.MADetail{
				SMA20: rec.SMA20,
				SMA50: rec.SMA50,
				Trend: rec.TrendStatus,
			},
			VolumeAnalysis: dto.VolumeDetail{
				CurrentVolume: rec.Volume,
				AvgVolume20:   rec.AvgVolume20,
				Status:        rec.VolumeStatus,
			},
			BreakoutIndicators: dto.BreakoutDetail{
				IsPotentialBreakout: rec.PotentialBreakout,
				PriceChangePct:      rec.PriceChangePct,
			},
		},
	}
}
