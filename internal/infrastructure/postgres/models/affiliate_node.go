package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AffiliateNodeModel struct {
	ID                string  `gorm:"primaryKey"`
	TreeID            string  `gorm:"index;not null"`
	WalletID          string  `gorm:"uniqueIndex;not null"`
	ParentWalletID    *string `gorm:"index"`
	CommissionPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Status            string  `gorm:"not null;default:ACTIVE"`
	Alias             string
	ReferralCode      string    `gorm:"uniqueIndex;not null"`
	EffectiveFrom     time.Time `gorm:"autoCreateTime"`
}

func (AffiliateNodeModel) TableName() string {
	return "affiliate_nodes"
}
