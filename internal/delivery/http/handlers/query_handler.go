package handlers

import (
	"strconv"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/delivery/http/response"
	"github.com/bittworld/bg-affiliate-service/internal/usecase"
	statsdto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/stats"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type QueryHandler struct {
	queryUc usecase.QueryUsecase
}

func NewQueryHandler(queryUc usecase.QueryUsecase) *QueryHandler {
	return &QueryHandler{
		queryUc: queryUc,
	}
}

// GET /api/v1/downline/tree
func (h *QueryHandler) GetDownlineTree(c *gin.Context) {
	walletID := c.GetHeader(callerWalletHeader)
	if walletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}

	tree, err := h.queryUc.GetDownlineTree(walletID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, tree)
}

// GET /api/v1/downline/stats
func (h *QueryHandler) GetDownlineStats(c *gin.Context) {
	walletID := c.GetHeader(callerWalletHeader)
	if walletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}

	filter, err := parseStatsFilter(c)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	stats, err := h.queryUc.GetDownlineStats(walletID, filter)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, stats)
}

// GET /api/v1/rewards?include_withdrawn=true
func (h *QueryHandler) GetCommissionHistory(c *gin.Context) {
	walletID := c.GetHeader(callerWalletHeader)
	if walletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}

	includeWithdrawn := c.DefaultQuery("include_withdrawn", "false") == "true"

	rewards, err := h.queryUc.GetWalletCommissionHistory(walletID, includeWithdrawn)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, rewards)
}

// GET /api/v1/downline/contains?target=xxx
//
// Gates cross-wallet visibility: callers may only inspect wallets sitting
// below them.
func (h *QueryHandler) IsInDownline(c *gin.Context) {
	walletID := c.GetHeader(callerWalletHeader)
	if walletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}
	target := c.Query("target")
	if target == "" {
		response.ParamError(c, "target is required")
		return
	}

	contained, err := h.queryUc.IsInDownlineOf(walletID, target)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, gin.H{"in_downline": contained})
}

func parseStatsFilter(c *gin.Context) (*statsdto.StatsFilter, error) {
	filter := &statsdto.StatsFilter{
		SortBy:    statsdto.SortKey(c.Query("sort_by")),
		SortOrder: statsdto.SortOrder(c.Query("sort_order")),
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		filter.To = &t
	}
	if v := c.Query("level"); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		filter.Level = &level
	}

	for query, target := range map[string]**decimal.Decimal{
		"min_commission": &filter.MinCommission,
		"max_commission": &filter.MaxCommission,
		"min_volume":     &filter.MinVolume,
		"max_volume":     &filter.MaxVolume,
	} {
		if v := c.Query(query); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, err
			}
			*target = &d
		}
	}

	return filter, nil
}
