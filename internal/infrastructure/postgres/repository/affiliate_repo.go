package repository

import (
	"errors"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultAffiliateRepository struct {
	DB *gorm.DB
}

func NewDefaultAffiliateRepository(db *gorm.DB) *DefaultAffiliateRepository {
	return &DefaultAffiliateRepository{
		DB: db,
	}
}

func (r *DefaultAffiliateRepository) CreateTree(tree *domain.AffiliateTree, rootNode *domain.AffiliateNode) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mappers.ToGORMTree(tree)).Error; err != nil {
			return err
		}
		return tx.Create(mappers.ToGORMNode(rootNode)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrTreeExists
	}
	return err
}

func (r *DefaultAffiliateRepository) GetTreeByID(treeID string) (*domain.AffiliateTree, error) {
	var model models.AffiliateTreeModel
	if err := r.DB.Where("id = ?", treeID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTreeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTree(&model), nil
}

func (r *DefaultAffiliateRepository) GetTreeByRootWallet(rootWalletID string) (*domain.AffiliateTree, error) {
	var model models.AffiliateTreeModel
	if err := r.DB.Where("root_wallet_id = ?", rootWalletID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTreeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainTree(&model), nil
}

func (r *DefaultAffiliateRepository) CreateNode(node *domain.AffiliateNode) error {
	err := r.DB.Create(mappers.ToGORMNode(node)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyInTree
	}
	return err
}

func (r *DefaultAffiliateRepository) GetNodeByWalletID(walletID string) (*domain.AffiliateNode, error) {
	var model models.AffiliateNodeModel
	if err := r.DB.Where("wallet_id = ?", walletID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainNode(&model), nil
}

func (r *DefaultAffiliateRepository) GetNodeByReferralCode(code string) (*domain.AffiliateNode, error) {
	var model models.AffiliateNodeModel
	if err := r.DB.Where("referral_code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReferralCodeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainNode(&model), nil
}

func (r *DefaultAffiliateRepository) GetChildren(treeID, parentWalletID string) ([]*domain.AffiliateNode, error) {
	var nodeModels []models.AffiliateNodeModel
	if err := r.DB.
		Where("tree_id = ? AND parent_wallet_id = ?", treeID, parentWalletID).
		Order("effective_from ASC").
		Find(&nodeModels).Error; err != nil {
		return nil, err
	}

	nodes := make([]*domain.AffiliateNode, len(nodeModels))
	for i, model := range nodeModels {
		nodes[i] = mappers.ToDomainNode(&model)
	}
	return nodes, nil
}

func (r *DefaultAffiliateRepository) GetActiveNodesByTree(treeID string) ([]*domain.AffiliateNode, error) {
	var nodeModels []models.AffiliateNodeModel
	if err := r.DB.
		Where("tree_id = ? AND status = ?", treeID, string(domain.NodeStatusActive)).
		Order("effective_from ASC").
		Find(&nodeModels).Error; err != nil {
		return nil, err
	}

	nodes := make([]*domain.AffiliateNode, len(nodeModels))
	for i, model := range nodeModels {
		nodes[i] = mappers.ToDomainNode(&model)
	}
	return nodes, nil
}

// GetAncestorChain walks parent links inside one read transaction so a
// concurrent percent update cannot produce a chain that mixes pre- and
// post-update values.
func (r *DefaultAffiliateRepository) GetAncestorChain(walletID string) ([]*domain.AffiliateNode, error) {
	var chain []*domain.AffiliateNode
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var current models.AffiliateNodeModel
		if err := tx.Where("wallet_id = ?", walletID).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNodeNotFound
			}
			return err
		}

		depth := 0
		for current.ParentWalletID != nil {
			depth++
			if depth > domain.MaxTreeDepth {
				return domain.ErrMaxDepthExceeded
			}
			var parent models.AffiliateNodeModel
			if err := tx.Where("wallet_id = ?", *current.ParentWalletID).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrParentNotFound
				}
				return err
			}
			chain = append(chain, mappers.ToDomainNode(&parent))
			current = parent
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func (r *DefaultAffiliateRepository) GetNodeForUpdate(walletID string) (*domain.AffiliateNode, error) {
	var model models.AffiliateNodeModel
	if err := r.DB.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("wallet_id = ?", walletID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, err
	}
	return mappers.ToDomainNode(&model), nil
}

func (r *DefaultAffiliateRepository) MaxDirectChildPercent(treeID, parentWalletID string) (decimal.Decimal, error) {
	var max decimal.Decimal
	err := r.DB.Model(&models.AffiliateNodeModel{}).
		Where("tree_id = ? AND parent_wallet_id = ?", treeID, parentWalletID).
		Select("COALESCE(MAX(commission_percent), 0)").
		Row().Scan(&max)
	if err != nil {
		return decimal.Zero, err
	}
	return max, nil
}

func (r *DefaultAffiliateRepository) UpdateNodePercent(walletID string, percent decimal.Decimal) error {
	result := r.DB.Model(&models.AffiliateNodeModel{}).
		Where("wallet_id = ?", walletID).
		Update("commission_percent", percent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNodeNotFound
	}
	return nil
}

func (r *DefaultAffiliateRepository) UpdateNodeAlias(walletID, alias string) error {
	result := r.DB.Model(&models.AffiliateNodeModel{}).
		Where("wallet_id = ?", walletID).
		Update("alias", alias)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNodeNotFound
	}
	return nil
}

func (r *DefaultAffiliateRepository) UpdateNodeStatus(walletID string, status domain.NodeStatus) error {
	result := r.DB.Model(&models.AffiliateNodeModel{}).
		Where("wallet_id = ?", walletID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNodeNotFound
	}
	return nil
}

func (r *DefaultAffiliateRepository) UpdateTreeTotalPercent(treeID string, percent decimal.Decimal) error {
	result := r.DB.Model(&models.AffiliateTreeModel{}).
		Where("id = ?", treeID).
		Update("total_commission_percent", percent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTreeNotFound
	}
	return nil
}

func (r *DefaultAffiliateRepository) AppendCommissionLog(log *domain.CommissionLog) error {
	return r.DB.Create(mappers.ToGORMCommissionLog(log)).Error
}

func (r *DefaultAffiliateRepository) Transaction(fn func(tx domain.AffiliateRepository) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&DefaultAffiliateRepository{DB: tx})
	})
}
