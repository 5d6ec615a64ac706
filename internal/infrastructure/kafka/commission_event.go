package publisher

import "time"

const CommissionEventsTopic = "commission-events"

type RewardEntry struct {
	WalletID string `json:"wallet_id"`
	Amount   string `json:"amount"`
	Level    int    `json:"level"`
}

// CommissionDistributedEvent is emitted after a distribution commits.
// Amounts travel as decimal strings to survive JSON round-trips.
type CommissionDistributedEvent struct {
	TreeID          string        `json:"tree_id"`
	OrderID         string        `json:"order_id"`
	TraderWalletID  string        `json:"trader_wallet_id,omitempty"`
	Mode            string        `json:"mode"`
	TotalCommission string        `json:"total_commission"`
	Rewards         []RewardEntry `json:"rewards"`
	DistributedAt   time.Time     `json:"distributed_at"`
}
