package statsdto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DownlineTreeNode is one member of the recursive downline view, annotated
// with the aggregates the querying wallet cares about.
type DownlineTreeNode struct {
	WalletID          string             `json:"walletId"`
	Alias             string             `json:"alias,omitempty"`
	CommissionPercent decimal.Decimal    `json:"commissionPercent"`
	Level             int                `json:"level"`
	TotalVolume       decimal.Decimal    `json:"totalVolume"`
	TotalReward       decimal.Decimal    `json:"totalReward"`
	TotalTrans        int64              `json:"totalTrans"`
	Children          []*DownlineTreeNode `json:"children,omitempty"`
}

type MemberStats struct {
	WalletID          string          `json:"walletId"`
	Alias             string          `json:"alias,omitempty"`
	Level             int             `json:"level"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
	CommissionEarned  decimal.Decimal `json:"commissionEarned"`
	TotalVolume       decimal.Decimal `json:"totalVolume"`
	TotalTrans        int64           `json:"totalTrans"`
	JoinedAt          time.Time       `json:"joinedAt"`
}

type LevelBucket struct {
	Members         int             `json:"members"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	TotalVolume     decimal.Decimal `json:"totalVolume"`
	TotalTrans      int64           `json:"totalTrans"`
}

type DownlineStatsOutput struct {
	Members         []MemberStats        `json:"members"`
	MembersByLevel  map[int]*LevelBucket `json:"membersByLevel"`
	TotalMembers    int                  `json:"totalMembers"`
	TotalCommission decimal.Decimal      `json:"totalCommission"`
	TotalVolume     decimal.Decimal      `json:"totalVolume"`
	TotalTrans      int64                `json:"totalTrans"`
}
