package statsdto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SortKey string

const (
	SortByCommission   SortKey = "commission"
	SortByVolume       SortKey = "volume"
	SortByTransactions SortKey = "transactions"
	SortByLevel        SortKey = "level"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// StatsFilter narrows the flattened downline before any level-bucket
// aggregation happens.
type StatsFilter struct {
	From          *time.Time
	To            *time.Time
	MinCommission *decimal.Decimal
	MaxCommission *decimal.Decimal
	MinVolume     *decimal.Decimal
	MaxVolume     *decimal.Decimal
	Level         *int
	SortBy        SortKey
	SortOrder     SortOrder
}
