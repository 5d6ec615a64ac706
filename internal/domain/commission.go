package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionLog is an append-only audit row for a commission percent change.
type CommissionLog struct {
	ID           string
	TreeID       string
	FromWalletID string
	ToWalletID   string
	OldPercent   decimal.Decimal
	NewPercent   decimal.Decimal
	ChangedAt    time.Time
}

// CommissionReward credits one beneficiary wallet for one order. SourceWalletID
// is the trader whose trade produced the commission; empty in flat-mode payouts.
type CommissionReward struct {
	ID               string
	TreeID           string
	OrderID          string
	WalletID         string
	SourceWalletID   string
	CommissionAmount decimal.Decimal
	Level            int
	WithdrawalID     *string
	CreatedAt        time.Time
}

func (r *CommissionReward) IsWithdrawn() bool {
	return r.WithdrawalID != nil
}

type RewardFilter struct {
	From           *time.Time
	To             *time.Time
	SourceWalletID string
}

type CommissionRewardRepository interface {
	// SaveRewards persists the whole batch in a single transaction.
	// A duplicate (tree_id, order_id, wallet_id) anywhere in the batch
	// rolls the batch back and returns ErrAlreadyDistributed.
	SaveRewards(rewards []*CommissionReward) error
	GetRewardsByOrder(treeID, orderID string) ([]*CommissionReward, error)
	GetRewardsByWallet(walletID string, includeWithdrawn bool) ([]*CommissionReward, error)
	// SumRewards totals what walletID earned, optionally narrowed by
	// source trader and date range.
	SumRewards(walletID string, filter RewardFilter) (decimal.Decimal, error)
}

// CommissionLogRepository is the read side of the audit log; writes go
// through AffiliateRepository.AppendCommissionLog so they share the
// mutating transaction.
type CommissionLogRepository interface {
	GetByWallet(walletID string) ([]*CommissionLog, error)
}
