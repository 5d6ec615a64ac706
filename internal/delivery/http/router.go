package http

import (
	"github.com/bittworld/bg-affiliate-service/internal/delivery/http/handlers"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	affiliateHandler *handlers.AffiliateHandler,
	distributionHandler *handlers.DistributionHandler,
	queryHandler *handlers.QueryHandler,
) *gin.Engine {
	router := gin.Default()

	api := router.Group("/api/v1")
	{
		trees := api.Group("/trees")
		{
			trees.POST("", affiliateHandler.CreateTree)
			trees.PUT("/:rootWalletId/commission", affiliateHandler.AdminUpdateRootCommission)
		}

		nodes := api.Group("/nodes")
		{
			nodes.POST("", affiliateHandler.AttachNode)
			nodes.POST("/join", affiliateHandler.JoinByReferralCode)
			nodes.GET("/:walletId", affiliateHandler.GetNode)
			nodes.PUT("/:walletId/commission", affiliateHandler.UpdateCommissionPercent)
			nodes.PUT("/:walletId/alias", affiliateHandler.UpdateAlias)
			nodes.PUT("/:walletId/status", affiliateHandler.SetNodeStatus)
		}

		commission := api.Group("/commission")
		{
			commission.POST("/distribute", distributionHandler.Distribute)
			commission.GET("/history", affiliateHandler.GetCommissionChangeHistory)
		}

		downline := api.Group("/downline")
		{
			downline.GET("/tree", queryHandler.GetDownlineTree)
			downline.GET("/stats", queryHandler.GetDownlineStats)
			downline.GET("/contains", queryHandler.IsInDownline)
		}

		api.GET("/rewards", queryHandler.GetCommissionHistory)
	}

	return router
}
