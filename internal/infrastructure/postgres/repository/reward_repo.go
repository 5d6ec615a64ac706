package repository

import (
	"errors"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DefaultCommissionRewardRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionRewardRepository(db *gorm.DB) *DefaultCommissionRewardRepository {
	return &DefaultCommissionRewardRepository{
		DB: db,
	}
}

// SaveRewards writes the whole per-order batch atomically. Any duplicate
// (tree_id, order_id, wallet_id) rolls everything back, so a reader never
// observes a partially distributed order.
func (r *DefaultCommissionRewardRepository) SaveRewards(rewards []*domain.CommissionReward) error {
	if len(rewards) == 0 {
		return nil
	}

	rewardModels := make([]*models.CommissionRewardModel, len(rewards))
	for i, reward := range rewards {
		rewardModels[i] = mappers.ToGORMReward(reward)
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(rewardModels).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyDistributed
	}
	return err
}

func (r *DefaultCommissionRewardRepository) GetRewardsByOrder(treeID, orderID string) ([]*domain.CommissionReward, error) {
	var rewardModels []models.CommissionRewardModel
	if err := r.DB.
		Where("tree_id = ? AND order_id = ?", treeID, orderID).
		Order("level ASC").
		Find(&rewardModels).Error; err != nil {
		return nil, err
	}

	rewards := make([]*domain.CommissionReward, len(rewardModels))
	for i, model := range rewardModels {
		rewards[i] = mappers.ToDomainReward(&model)
	}
	return rewards, nil
}

func (r *DefaultCommissionRewardRepository) GetRewardsByWallet(walletID string, includeWithdrawn bool) ([]*domain.CommissionReward, error) {
	query := r.DB.Where("wallet_id = ?", walletID)
	if !includeWithdrawn {
		query = query.Where("withdrawal_id IS NULL")
	}

	var rewardModels []models.CommissionRewardModel
	if err := query.Order("created_at DESC").Find(&rewardModels).Error; err != nil {
		return nil, err
	}

	rewards := make([]*domain.CommissionReward, len(rewardModels))
	for i, model := range rewardModels {
		rewards[i] = mappers.ToDomainReward(&model)
	}
	return rewards, nil
}

func (r *DefaultCommissionRewardRepository) SumRewards(walletID string, filter domain.RewardFilter) (decimal.Decimal, error) {
	query := r.DB.Model(&models.CommissionRewardModel{}).
		Where("wallet_id = ?", walletID)
	if filter.SourceWalletID != "" {
		query = query.Where("source_wallet_id = ?", filter.SourceWalletID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total decimal.Decimal
	if err := query.Select("COALESCE(SUM(commission_amount), 0)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
