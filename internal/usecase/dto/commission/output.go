package commissiondto

import "github.com/shopspring/decimal"

type DistributionMode string

const (
	ModeReferral DistributionMode = "REFERRAL"
	ModeFlat     DistributionMode = "FLAT"
)

type RewardShare struct {
	WalletID string
	Amount   decimal.Decimal
	Level    int
}

type DistributionSummary struct {
	TreeID             string
	OrderID            string
	Mode               DistributionMode
	EffectiveRate      decimal.Decimal
	TotalCommission    decimal.Decimal
	TotalDistributed   decimal.Decimal
	Rewards            []RewardShare
	AlreadyDistributed bool
}
