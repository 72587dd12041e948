package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"stock-screener/config"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"
)

type WatchlistService interface {
	List(ctx context.Context, userID uint) ([]model.WatchlistEntry, error)
	FindCandidates(ctx context.Context) ([]dto.Candidate, error)
	Refresh(ctx context.Context, userID uint) (*dto.RefreshResult, error)
	UpdatePrices(ctx context.Context, userID uint) (*dto.PriceUpdateResult, error)
	Cleanup(ctx context.Context, userID uint) (*dto.CleanupResult, error)
}

type watchlistService struct {
	cfg           *config.Config
	log           *logger.Logger
	priceRepo     repository.PriceRepository
	companyRepo   repository.CompanyRepository
	watchlistRepo repository.WatchlistRepository
	uow           repository.UnitOfWork
}

func NewWatchlistService(
	cfg *config.Config,
	log *logger.Logger,
	priceRepo repository.PriceRepository,
	companyRepo repository.CompanyRepository,
	watchlistRepo repository.WatchlistRepository,
	uow repository.UnitOfWork,
) WatchlistService {
	return &watchlistService{
		cfg:           cfg,
		log:           log,
		priceRepo:     priceRepo,
		companyRepo:   companyRepo,
		watchlistRepo: watchlistRepo,
		uow:           uow,
	}
}

func (s *watchlistService) List(ctx context.Context, userID uint) ([]model.WatchlistEntry, error) {
	return s.watchlistRepo.List(ctx, userID)
}

// FindCandidates scans the full ticker universe over the trailing lookback
// window and keeps tickers that pulled back from their 52-week high into the
// recovery band on elevated volume. Results are ordered largest drawdown
// first so the deepest pullbacks lead the list.
func (s *watchlistService) FindCandidates(ctx context.Context) ([]dto.Candidate, error) {
	companies, err := s.companyRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	since := utils.DaysAgo(s.cfg.Screener.LookbackDays)
	candidates := make([]dto.Candidate, 0)

	for _, company := range companies {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		bars, err := s.priceRepo.GetBarsSince(ctx, company.Ticker, since)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping ticker in candidate scan",
				logger.ErrorField(err),
				logger.StringField("ticker", company.Ticker),
			)
			continue
		}
		if len(bars) == 0 {
			continue
		}

		candidate, ok := s.evaluate(company, bars)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Drawdown() != candidates[j].Drawdown() {
			return candidates[i].Drawdown() > candidates[j].Drawdown()
		}
		return candidates[i].Ticker < candidates[j].Ticker
	})
	return candidates, nil
}

// evaluate applies the admission thresholds to one ticker's trailing window.
// Bars arrive newest-first; bars[0] carries the current price and volume.
func (s *watchlistService) evaluate(company model.Company, bars []model.PriceBar) (dto.Candidate, bool) {
	current := bars[0].Close
	currentVolume := bars[0].Volume

	var (
		weekHigh52 float64
		sumClose   float64
		sumVolume  float64
	)
	for _, bar := range bars {
		if bar.High > weekHigh52 {
			weekHigh52 = bar.High
		}
		sumClose += bar.Close
		sumVolume += float64(bar.Volume)
	}
	avgClose := sumClose / float64(len(bars))
	avgVolume := sumVolume / float64(len(bars))

	if weekHigh52 <= 0 || avgVolume <= 0 {
		return dto.Candidate{}, false
	}
	if current > (1-s.cfg.Screener.PriceDropThreshold)*weekHigh52 {
		return dto.Candidate{}, false
	}
	if current < s.cfg.Screener.RecoveryThreshold*weekHigh52 {
		return dto.Candidate{}, false
	}
	if float64(currentVolume) < s.cfg.Screener.VolumeIncreaseThreshold*avgVolume {
		return dto.Candidate{}, false
	}
	if current <= s.cfg.Screener.MinPrice {
		return dto.Candidate{}, false
	}

	return dto.Candidate{
		Ticker:        company.Ticker,
		Sector:        company.Sector,
		Industry:      company.Industry,
		WeekHigh52:    weekHigh52,
		AvgClose:      avgClose,
		AvgVolume:     avgVolume,
		CurrentPrice:  current,
		CurrentVolume: currentVolume,
	}, true
}

// Refresh evicts expired entries, then admits fresh candidates. A ticker
// admitted within the cooldown window is skipped so the same pullback cannot
// re-enter the list day after day.
func (s *watchlistService) Refresh(ctx context.Context, userID uint) (*dto.RefreshResult, error) {
	if _, err := s.Cleanup(ctx, userID); err != nil {
		return nil, err
	}

	candidates, err := s.FindCandidates(ctx)
	if err != nil {
		return nil, err
	}

	cooldownSince := utils.DaysAgo(s.cfg.Watchlist.RetentionDays)
	added := 0

	for _, candidate := range candidates {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		recent, err := s.watchlistRepo.FindRecentEntry(ctx, candidate.Ticker, userID, cooldownSince)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping candidate, cooldown lookup failed",
				logger.ErrorField(err),
				logger.StringField("ticker", candidate.Ticker),
			)
			continue
		}
		if recent != nil {
			continue
		}

		entry, err := s.buildEntry(candidate, userID)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping candidate, entry build failed",
				logger.ErrorField(err),
				logger.StringField("ticker", candidate.Ticker),
			)
			continue
		}

		inserted, err := s.watchlistRepo.Create(ctx, entry)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping candidate, insert failed",
				logger.ErrorField(err),
				logger.StringField("ticker", candidate.Ticker),
			)
			continue
		}
		if inserted {
			added++
			s.log.InfoContext(ctx, "Added ticker to watchlist",
				logger.StringField("ticker", candidate.Ticker),
				logger.StringField("reason", entry.Reason),
			)
		}
	}

	return &dto.RefreshResult{AddedCount: added}, nil
}

func (s *watchlistService) buildEntry(candidate dto.Candidate, userID uint) (*model.WatchlistEntry, error) {
	percentBelow := utils.RoundTo2((candidate.WeekHigh52 - candidate.CurrentPrice) / candidate.WeekHigh52 * 100)
	volumeIncrease := utils.RoundTo2((float64(candidate.CurrentVolume)/candidate.AvgVolume - 1) * 100)

	priceToAvg := 0.0
	if candidate.AvgClose > 0 {
		priceToAvg = utils.RoundTo2(candidate.CurrentPrice / candidate.AvgClose)
	}

	metrics, err := json.Marshal(model.WatchlistMetrics{
		VolumeIncreasePct: volumeIncrease,
		Industry:          candidate.Industry,
		PriceToAvgRatio:   priceToAvg,
	})
	if err != nil {
		return nil, err
	}

	return &model.WatchlistEntry{
		Ticker:    candidate.Ticker,
		UserID:    userID,
		DateAdded: utils.TimeNowET(),
		Reason: fmt.Sprintf("Trading %.2f%% below 52-week high with %.2f%% volume increase",
			percentBelow, volumeIncrease),
		Sector:                 candidate.Sector,
		Industry:               candidate.Industry,
		PriceWhenAdded:         candidate.CurrentPrice,
		CurrentPrice:           candidate.CurrentPrice,
		WeekHigh52:             candidate.WeekHigh52,
		PercentBelow52WeekHigh: percentBelow,
		AvgClose:               utils.RoundTo2(candidate.AvgClose),
		Metrics:                metrics,
	}, nil
}

// UpdatePrices rewrites CurrentPrice and PriceChange for every active entry
// from the latest stored bar. Each entry commits on its own: a failing
// ticker is logged and skipped, and progress made before it stays.
func (s *watchlistService) UpdatePrices(ctx context.Context, userID uint) (*dto.PriceUpdateResult, error) {
	entries, err := s.watchlistRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := 0
	for _, entry := range entries {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}

		latest, err := s.priceRepo.GetLatest(ctx, entry.Ticker)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping entry in price update",
				logger.ErrorField(err),
				logger.StringField("ticker", entry.Ticker),
			)
			continue
		}
		if latest == nil || entry.PriceWhenAdded == 0 {
			continue
		}

		priceChange := utils.RoundTo2((latest.Close - entry.PriceWhenAdded) / entry.PriceWhenAdded * 100)
		err = s.uow.Run(func(opts ...utils.DBOption) error {
			return s.watchlistRepo.UpdatePrice(ctx, entry.ID, latest.Close, priceChange, opts...)
		})
		if err != nil {
			s.log.WarnContext(ctx, "Skipping entry in price update",
				logger.ErrorField(err),
				logger.StringField("ticker", entry.Ticker),
			)
			continue
		}
		updated++
	}

	return &dto.PriceUpdateResult{UpdatedCount: updated}, nil
}

// Cleanup evicts entries older than the retention window regardless of
// performance since admission.
func (s *watchlistService) Cleanup(ctx context.Context, userID uint) (*dto.CleanupResult, error) {
	cutoff := utils.DaysAgo(s.cfg.Watchlist.RetentionDays)
	removed, err := s.watchlistRepo.DeleteOlderThan(ctx, userID, cutoff)
	if err != nil {
		return nil, err
	}

	if removed > 0 {
		s.log.InfoContext(ctx, "Removed expired watchlist entries",
			logger.Int64Field("removed", removed),
		)
	}
	return &dto.CleanupResult{RemovedCount: removed}, nil
}
