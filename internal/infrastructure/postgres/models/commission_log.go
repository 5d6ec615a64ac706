package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionLogModel struct {
	ID           string          `gorm:"primaryKey"`
	TreeID       string          `gorm:"index;not null"`
	FromWalletID string          `gorm:"index;not null"`
	ToWalletID   string          `gorm:"index;not null"`
	OldPercent   decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	NewPercent   decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	ChangedAt    time.Time       `gorm:"index;not null"`
}

func (CommissionLogModel) TableName() string {
	return "commission_logs"
}
