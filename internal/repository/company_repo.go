package repository

import (
	"context"
	"errors"

	"stock-screener/internal/model"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	List(ctx context.Context) ([]model.Company, error)
	Get(ctx context.Context, ticker string) (*model.Company, error)
}

type companyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

func (r *companyRepository) List(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	if err := r.db.WithContext(ctx).Order("ticker ASC").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *companyRepository) Get(ctx context.Context, ticker string) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).Where("ticker = ?", ticker).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}
