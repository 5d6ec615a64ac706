package handlers

import (
	"github.com/bittworld/bg-affiliate-service/internal/delivery/http/response"
	"github.com/bittworld/bg-affiliate-service/internal/usecase"
	affiliatedto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/affiliate"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// callerWalletID is set by the external auth gateway. The usecases re-derive
// authorization from the tree store; the header only names the actor.
const callerWalletHeader = "X-Wallet-ID"

type AffiliateHandler struct {
	treeUc      usecase.TreeUsecase
	authorityUc usecase.AuthorityUsecase
}

func NewAffiliateHandler(treeUc usecase.TreeUsecase, authorityUc usecase.AuthorityUsecase) *AffiliateHandler {
	return &AffiliateHandler{
		treeUc:      treeUc,
		authorityUc: authorityUc,
	}
}

type CreateTreeRequest struct {
	RootWalletID           string          `json:"root_wallet_id" binding:"required"`
	TotalCommissionPercent decimal.Decimal `json:"total_commission_percent"`
	Alias                  string          `json:"alias"`
}

// POST /api/v1/trees
func (h *AffiliateHandler) CreateTree(c *gin.Context) {
	var req CreateTreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	out, err := h.treeUc.CreateTree(&affiliatedto.CreateTreeInput{
		RootWalletID:           req.RootWalletID,
		TotalCommissionPercent: req.TotalCommissionPercent,
		Alias:                  req.Alias,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Created(c, gin.H{
		"tree_id":                  out.Tree.ID,
		"root_wallet_id":           out.Tree.RootWalletID,
		"total_commission_percent": out.Tree.TotalCommissionPercent,
		"referral_code":            out.RootNode.ReferralCode,
	})
}

type AttachNodeRequest struct {
	TreeID            string          `json:"tree_id" binding:"required"`
	WalletID          string          `json:"wallet_id" binding:"required"`
	ParentWalletID    string          `json:"parent_wallet_id" binding:"required"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Alias             string          `json:"alias"`
}

// POST /api/v1/nodes
func (h *AffiliateHandler) AttachNode(c *gin.Context) {
	var req AttachNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	node, err := h.treeUc.AttachNode(&affiliatedto.AttachNodeInput{
		TreeID:            req.TreeID,
		WalletID:          req.WalletID,
		ParentWalletID:    req.ParentWalletID,
		CommissionPercent: req.CommissionPercent,
		Alias:             req.Alias,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Created(c, gin.H{
		"node_id":            node.ID,
		"tree_id":            node.TreeID,
		"wallet_id":          node.WalletID,
		"commission_percent": node.CommissionPercent,
		"referral_code":      node.ReferralCode,
	})
}

type JoinByReferralRequest struct {
	ReferralCode      string          `json:"referral_code" binding:"required"`
	WalletID          string          `json:"wallet_id" binding:"required"`
	CommissionPercent decimal.Decimal `json:"commission_percent"`
	Alias             string          `json:"alias"`
}

// POST /api/v1/nodes/join
func (h *AffiliateHandler) JoinByReferralCode(c *gin.Context) {
	var req JoinByReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	node, err := h.treeUc.AttachNodeByReferralCode(&affiliatedto.AttachByReferralCodeInput{
		ReferralCode:      req.ReferralCode,
		WalletID:          req.WalletID,
		CommissionPercent: req.CommissionPercent,
		Alias:             req.Alias,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Created(c, gin.H{
		"node_id":            node.ID,
		"tree_id":            node.TreeID,
		"wallet_id":          node.WalletID,
		"commission_percent": node.CommissionPercent,
		"referral_code":      node.ReferralCode,
	})
}

// GET /api/v1/nodes/:walletId
func (h *AffiliateHandler) GetNode(c *gin.Context) {
	node, err := h.treeUc.GetNode(c.Param("walletId"))
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, node)
}

type UpdateCommissionRequest struct {
	NewPercent decimal.Decimal `json:"new_percent" binding:"required"`
}

// PUT /api/v1/nodes/:walletId/commission
func (h *AffiliateHandler) UpdateCommissionPercent(c *gin.Context) {
	fromWalletID := c.GetHeader(callerWalletHeader)
	if fromWalletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}

	var req UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	out, err := h.authorityUc.UpdateCommissionPercent(&affiliatedto.UpdateCommissionInput{
		FromWalletID: fromWalletID,
		ToWalletID:   c.Param("walletId"),
		NewPercent:   req.NewPercent,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, out)
}

type UpdateAliasRequest struct {
	NewAlias string `json:"new_alias" binding:"required"`
}

// PUT /api/v1/nodes/:walletId/alias
func (h *AffiliateHandler) UpdateAlias(c *gin.Context) {
	fromWalletID := c.GetHeader(callerWalletHeader)
	if fromWalletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}

	var req UpdateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	err := h.authorityUc.UpdateAlias(&affiliatedto.UpdateAliasInput{
		FromWalletID: fromWalletID,
		ToWalletID:   c.Param("walletId"),
		NewAlias:     req.NewAlias,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, gin.H{"updated": true})
}

type SetStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// PUT /api/v1/nodes/:walletId/status
func (h *AffiliateHandler) SetNodeStatus(c *gin.Context) {
	fromWalletID := c.GetHeader(callerWalletHeader)
	if fromWalletID == "" {
		response.ParamError(c, "missing caller wallet")
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	err := h.authorityUc.SetNodeStatus(&affiliatedto.SetNodeStatusInput{
		FromWalletID: fromWalletID,
		ToWalletID:   c.Param("walletId"),
		Active:       *req.Active,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, gin.H{"updated": true})
}

type AdminRootCommissionRequest struct {
	NewPercent decimal.Decimal `json:"new_percent" binding:"required"`
}

// PUT /api/v1/trees/:rootWalletId/commission
func (h *AffiliateHandler) AdminUpdateRootCommission(c *gin.Context) {
	var req AdminRootCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "invalid request: "+err.Error())
		return
	}

	out, err := h.authorityUc.AdminUpdateRootCommission(&affiliatedto.AdminUpdateRootCommissionInput{
		RootWalletID: c.Param("rootWalletId"),
		NewPercent:   req.NewPercent,
	})
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, out)
}

// GET /api/v1/commission/history?wallet_id=xxx
func (h *AffiliateHandler) GetCommissionChangeHistory(c *gin.Context) {
	walletID := c.Query("wallet_id")
	if walletID == "" {
		response.ParamError(c, "wallet_id is required")
		return
	}

	logs, err := h.authorityUc.GetCommissionChangeHistory(walletID)
	if err != nil {
		response.DomainError(c, err)
		return
	}

	response.Success(c, logs)
}
