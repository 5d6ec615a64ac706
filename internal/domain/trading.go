package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeStats is the per-wallet trade aggregate owned by the trading-order
// service, queried with an optional date range.
type TradeStats struct {
	TotalVolume decimal.Decimal
	TotalTrans  int64
	LastTradeAt *time.Time
}

type TradingStatsProvider interface {
	GetWalletTradeStats(walletID string, from, to *time.Time) (*TradeStats, error)
}
