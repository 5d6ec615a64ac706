package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// The composite unique index makes distribution idempotent: re-delivery of
// an already-settled order violates it and is treated as a no-op success.
type CommissionRewardModel struct {
	ID               string          `gorm:"primaryKey"`
	TreeID           string          `gorm:"not null;uniqueIndex:idx_reward_tree_order_wallet"`
	OrderID          string          `gorm:"not null;uniqueIndex:idx_reward_tree_order_wallet"`
	WalletID         string          `gorm:"not null;index;uniqueIndex:idx_reward_tree_order_wallet"`
	SourceWalletID   string          `gorm:"index"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(30,10);not null"`
	Level            int             `gorm:"not null"`
	WithdrawalID     *string         `gorm:"index"`
	CreatedAt        time.Time       `gorm:"index;autoCreateTime"`
}

func (CommissionRewardModel) TableName() string {
	return "commission_rewards"
}
