package handlers

import (
	"github.com/bittworld/bg-affiliate-service/internal/delivery/http/response"
	"github.com/bittworld/bg-affiliate-service/internal/usecase"
	commissiondto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/commission"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type DistributionHandler struct {
	distributionUc usecase.DistributionUsecase
}

func NewDistributionHandler(distributionUc usecase.DistributionUsecase) *DistributionHandler {
	return &DistributionHandler{
		distributionUc: distributionUc,
	}
}

type DistributeRequest struct {
	TreeID         string          `json:"tree_id" binding:"required"`
	OrderID        string          `json:"order_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	TraderWalletID string          `json:"trader_wallet_id"`
}

// POST /api/v1/commission/distribute
//
// Called by the trading subsystem once per settled order. Safe to retry:
// a replay returns the originally committed reward set.
func (h *DistributionHandler) Distribute(c *gin.Context) {
	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	summary, err := h.distributionUc.Distribute(&commissiondto.DistributeInput{
		TreeID:         req.TreeID,
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		CommissionRate: req.CommissionRate,
		TraderWalletID: req.TraderWalletID,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, summary)
}
