package model

import "time"

type Company struct {
	Ticker    string    `gorm:"type:varchar(10);primaryKey" json:"ticker"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Sector    string    `gorm:"type:varchar(100)" json:"sector"`
	Industry  string    `gorm:"type:varchar(100)" json:"industry"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}
