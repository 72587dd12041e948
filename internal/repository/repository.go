package repository

import (
	"gorm.io/gorm"
)

type Repository struct {
	PriceRepo     PriceRepository
	CompanyRepo   CompanyRepository
	WatchlistRepo WatchlistRepository
	UnitOfWork    UnitOfWork
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		PriceRepo:     NewPriceRepository(db),
		CompanyRepo:   NewCompanyRepository(db),
		WatchlistRepo: NewWatchlistRepository(db),
		UnitOfWork:    NewUnitOfWork(db),
	}
}
