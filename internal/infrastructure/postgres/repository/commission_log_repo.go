package repository

import (
	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/mappers"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCommissionLogRepository struct {
	DB *gorm.DB
}

func NewDefaultCommissionLogRepository(db *gorm.DB) *DefaultCommissionLogRepository {
	return &DefaultCommissionLogRepository{
		DB: db,
	}
}

func (r *DefaultCommissionLogRepository) GetByWallet(walletID string) ([]*domain.CommissionLog, error) {
	var logModels []models.CommissionLogModel
	if err := r.DB.
		Where("from_wallet_id = ? OR to_wallet_id = ?", walletID, walletID).
		Order("changed_at DESC").
		Find(&logModels).Error; err != nil {
		return nil, err
	}

	logs := make([]*domain.CommissionLog, len(logModels))
	for i, model := range logModels {
		logs[i] = mappers.ToDomainCommissionLog(&model)
	}
	return logs, nil
}
