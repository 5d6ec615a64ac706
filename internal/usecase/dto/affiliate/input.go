package affiliatedto

import "github.com/shopspring/decimal"

type CreateTreeInput struct {
	RootWalletID           string
	TotalCommissionPercent decimal.Decimal
	Alias                  string
}

type AttachNodeInput struct {
	TreeID            string
	WalletID          string
	ParentWalletID    string
	CommissionPercent decimal.Decimal
	Alias             string
}

type AttachByReferralCodeInput struct {
	ReferralCode      string
	WalletID          string
	CommissionPercent decimal.Decimal
	Alias             string
}

type UpdateCommissionInput struct {
	FromWalletID string
	ToWalletID   string
	NewPercent   decimal.Decimal
}

type UpdateAliasInput struct {
	FromWalletID string
	ToWalletID   string
	NewAlias     string
}

type SetNodeStatusInput struct {
	FromWalletID string
	ToWalletID   string
	Active       bool
}

type AdminUpdateRootCommissionInput struct {
	RootWalletID string
	NewPercent   decimal.Decimal
}
