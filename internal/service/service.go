package service

import (
	"errors"

	"stock-screener/config"
	"stock-screener/internal/repository"
	"stock-screener/pkg/cache"
	"stock-screener/pkg/logger"
)

// ErrStockNotFound marks a ticker with no price bars at all, as opposed to
// one with too little history for an indicator (which degrades to defaults).
var ErrStockNotFound = errors.New("stock not found")

type Service struct {
	AnalysisService  AnalysisService
	WatchlistService WatchlistService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	analysisService := NewAnalysisService(cfg, log, inmemoryCache, repo.PriceRepo, repo.CompanyRepo)
	watchlistService := NewWatchlistService(cfg, log, repo.PriceRepo, repo.CompanyRepo, repo.WatchlistRepo, repo.UnitOfWork)
	schedulerService := NewSchedulerService(cfg, log, watchlistService)

	return &Service{
		AnalysisService:  analysisService,
		WatchlistService: watchlistService,
		SchedulerService: schedulerService,
	}
}
