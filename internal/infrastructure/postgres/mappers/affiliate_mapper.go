package mappers

import (
	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/models"
)

func ToGORMTree(tree *domain.AffiliateTree) *models.AffiliateTreeModel {
	return &models.AffiliateTreeModel{
		ID:                     tree.ID,
		RootWalletID:           tree.RootWalletID,
		TotalCommissionPercent: tree.TotalCommissionPercent,
		Alias:                  tree.Alias,
		CreatedAt:              tree.CreatedAt,
	}
}

func ToDomainTree(model *models.AffiliateTreeModel) *domain.AffiliateTree {
	return &domain.AffiliateTree{
		ID:                     model.ID,
		RootWalletID:           model.RootWalletID,
		TotalCommissionPercent: model.TotalCommissionPercent,
		Alias:                  model.Alias,
		CreatedAt:              model.CreatedAt,
	}
}

func ToGORMNode(node *domain.AffiliateNode) *models.AffiliateNodeModel {
	return &models.AffiliateNodeModel{
		ID:                node.ID,
		TreeID:            node.TreeID,
		WalletID:          node.WalletID,
		ParentWalletID:    node.ParentWalletID,
		CommissionPercent: node.CommissionPercent,
		Status:            string(node.Status),
		Alias:             node.Alias,
		ReferralCode:      node.ReferralCode,
		EffectiveFrom:     node.EffectiveFrom,
	}
}

func ToDomainNode(model *models.AffiliateNodeModel) *domain.AffiliateNode {
	return &domain.AffiliateNode{
		ID:                model.ID,
		TreeID:            model.TreeID,
		WalletID:          model.WalletID,
		ParentWalletID:    model.ParentWalletID,
		CommissionPercent: model.CommissionPercent,
		Status:            domain.NodeStatus(model.Status),
		Alias:             model.Alias,
		ReferralCode:      model.ReferralCode,
		EffectiveFrom:     model.EffectiveFrom,
	}
}
