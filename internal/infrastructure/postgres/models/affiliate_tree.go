package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AffiliateTreeModel struct {
	ID                     string          `gorm:"primaryKey"`
	RootWalletID           string          `gorm:"uniqueIndex;not null"`
	TotalCommissionPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	Alias                  string
	CreatedAt              time.Time `gorm:"autoCreateTime"`
}

func (AffiliateTreeModel) TableName() string {
	return "affiliate_trees"
}
