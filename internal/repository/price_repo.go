package repository

import (
	"context"
	"errors"
	"time"

	"stock-screener/internal/model"

	"gorm.io/gorm"
)

// PriceRepository reads the immutable price-bar store. All queries return
// bars newest-first, which is the ordering the indicator kernels expect.
type PriceRepository interface {
	GetBars(ctx context.Context, ticker string, limit int) ([]model.PriceBar, error)
	GetBarsSince(ctx context.Context, ticker string, since time.Time) ([]model.PriceBar, error)
	GetLatest(ctx context.Context, ticker string) (*model.PriceBar, error)
}

type priceRepository struct {
	db *gorm.DB
}

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) GetBars(ctx context.Context, ticker string, limit int) ([]model.PriceBar, error) {
	var bars []model.PriceBar
	query := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&bars).Error; err != nil {
		return nil, err
	}
	return bars, nil
}

func (r *priceRepository) GetBarsSince(ctx context.Context, ticker string, since time.Time) ([]model.PriceBar, error) {
	var bars []model.PriceBar
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date >= ?", ticker, since).
		Order("date DESC").
		Find(&bars).Error
	if err != nil {
		return nil, err
	}
	return bars, nil
}

func (r *priceRepository) GetLatest(ctx context.Context, ticker string) (*model.PriceBar, error) {
	var bar model.PriceBar
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC").
		First(&bar).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bar, nil
}
