package affiliatedto

import (
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/shopspring/decimal"
)

type TreeOutput struct {
	Tree     domain.AffiliateTree
	RootNode domain.AffiliateNode
}

type WalletDisplay struct {
	WalletID      string
	SolanaAddress string
	Nickname      string
	Alias         string
}

type UpdateCommissionOutput struct {
	TreeID     string
	From       WalletDisplay
	To         WalletDisplay
	OldPercent decimal.Decimal
	NewPercent decimal.Decimal
	ChangedAt  time.Time
}
