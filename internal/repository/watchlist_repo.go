package repository

import (
	"context"
	"errors"
	"time"

	"stock-screener/internal/model"
	"stock-screener/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository interface {
	List(ctx context.Context, userID uint) ([]model.WatchlistEntry, error)
	FindRecentEntry(ctx context.Context, ticker string, userID uint, since time.Time) (*model.WatchlistEntry, error)
	// Create inserts an entry unless one already exists for the same
	// (ticker, user). Returns false when a concurrent writer won the
	// insert — callers treat that as an admission no-op.
	Create(ctx context.Context, entry *model.WatchlistEntry, opts ...utils.DBOption) (bool, error)
	UpdatePrice(ctx context.Context, id uint, currentPrice, priceChange float64, opts ...utils.DBOption) error
	DeleteOlderThan(ctx context.Context, userID uint, cutoff time.Time) (int64, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) List(ctx context.Context, userID uint) ([]model.WatchlistEntry, error) {
	var entries []model.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("userid = ?", userID).
		Order("date_added DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *watchlistRepository) FindRecentEntry(ctx context.Context, ticker string, userID uint, since time.Time) (*model.WatchlistEntry, error) {
	var entry model.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND userid = ? AND date_added >= ?", ticker, userID, since).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *watchlistRepository) Create(ctx context.Context, entry *model.WatchlistEntry, opts ...utils.DBOption) (bool, error) {
	db := utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ticker"}, {Name: "userid"}},
			DoNothing: true,
		}).
		Create(entry)
	if db.Error != nil {
		return false, db.Error
	}
	return db.RowsAffected > 0, nil
}

func (r *watchlistRepository) UpdatePrice(ctx context.Context, id uint, currentPrice, priceChange float64, opts ...utils.DBOption) error {
	return utils.ApplyOptions(r.db.WithContext(ctx), opts...).
		Model(&model.WatchlistEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_price": currentPrice,
			"price_change":  priceChange,
		}).Error
}

func (r *watchlistRepository) DeleteOlderThan(ctx context.Context, userID uint, cutoff time.Time) (int64, error) {
	db := r.db.WithContext(ctx).
		Where("userid = ? AND date_added < ?", userID, cutoff).
		Delete(&model.WatchlistEntry{})
	if db.Error != nil {
		return 0, db.Error
	}
	return db.RowsAffected, nil
}
