package commissiondto

import "github.com/shopspring/decimal"

// DistributeInput describes one completed trade handed in by the trading
// subsystem. CommissionRate is optional; zero means the platform default.
// TraderWalletID empty selects the legacy flat distribution mode.
type DistributeInput struct {
	TreeID         string
	OrderID        string
	Amount         decimal.Decimal
	CommissionRate decimal.Decimal
	TraderWalletID string
}
