package service

import (
	"context"

	"stock-screener/config"
	"stock-screener/pkg/logger"
	"stock-screener/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService owns the recurring jobs: the after-market screener run,
// the intraday price refresh, and the retention cleanup.
type SchedulerService interface {
	Start(ctx context.Context) error
	Stop()
	RunAfterMarket(ctx context.Context) error
	RunPriceUpdate(ctx context.Context) error
	RunCleanup(ctx context.Context) error
}

type schedulerService struct {
	cfg              *config.Config
	log              *logger.Logger
	watchlistService WatchlistService
	cron             *cron.Cron
}

func NewSchedulerService(
	cfg *config.Config,
	log *logger.Logger,
	watchlistService WatchlistService,
) SchedulerService {
	return &schedulerService{
		cfg:              cfg,
		log:              log,
		watchlistService: watchlistService,
		cron:             cron.New(cron.WithLocation(utils.GetMarketLocation())),
	}
}

func (s *schedulerService) Start(ctx context.Context) error {
	jobs := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{"after_market_screen", s.cfg.Scheduler.AfterMarketCron, s.RunAfterMarket},
		{"price_update", s.cfg.Scheduler.PriceUpdateCron, s.RunPriceUpdate},
		{"watchlist_cleanup", s.cfg.Scheduler.CleanupCron, s.RunCleanup},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			s.runJob(ctx, job.name, job.fn)
		})
		if err != nil {
			return err
		}
		s.log.Info("Scheduled job",
			logger.StringField("job", job.name),
			logger.StringField("cron", job.spec),
		)
	}

	s.cron.Start()
	return nil
}

func (s *schedulerService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Scheduler stopped")
}

// runJob bounds each invocation with the scheduler timeout and keeps a
// panicking job from taking the cron runner down with it.
func (s *schedulerService) runJob(ctx context.Context, name string, fn func(context.Context) error) {
	jobCtx, cancel := context.WithTimeout(ctx, s.cfg.Scheduler.TimeoutDuration)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Job panicked",
				logger.StringField("job", name),
				logger.Field("panic", r),
			)
		}
	}()

	s.log.InfoContext(jobCtx, "Job started", logger.StringField("job", name))
	if err := fn(jobCtx); err != nil {
		s.log.ErrorContext(jobCtx, "Job failed",
			logger.ErrorField(err),
			logger.StringField("job", name),
		)
		return
	}
	s.log.InfoContext(jobCtx, "Job finished", logger.StringField("job", name))
}

// RunAfterMarket performs the daily screen: evict expired entries, then
// admit the day's candidates. Skipped on weekends since no new bars exist.
func (s *schedulerService) RunAfterMarket(ctx context.Context) error {
	if !utils.IsTradingDay(utils.TimeNowET()) {
		s.log.InfoContext(ctx, "Skipping after-market screen on non-trading day")
		return nil
	}

	userID := s.cfg.Watchlist.DefaultUserID
	result, err := s.watchlistService.Refresh(ctx, userID)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "After-market screen complete",
		logger.IntField("added", result.AddedCount),
	)
	return nil
}

func (s *schedulerService) RunPriceUpdate(ctx context.Context) error {
	if !utils.IsTradingDay(utils.TimeNowET()) {
		return nil
	}

	result, err := s.watchlistService.UpdatePrices(ctx, s.cfg.Watchlist.DefaultUserID)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Price update complete",
		logger.IntField("updated", result.UpdatedCount),
	)
	return nil
}

func (s *schedulerService) RunCleanup(ctx context.Context) error {
	result, err := s.watchlistService.Cleanup(ctx, s.cfg.Watchlist.DefaultUserID)
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "Cleanup complete",
		logger.Int64Field("removed", result.RemovedCount),
	)
	return nil
}
