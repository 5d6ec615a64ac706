package mappers

import (
	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/postgres/models"
)

func ToGORMCommissionLog(log *domain.CommissionLog) *models.CommissionLogModel {
	return &models.CommissionLogModel{
		ID:           log.ID,
		TreeID:       log.TreeID,
		FromWalletID: log.FromWalletID,
		ToWalletID:   log.ToWalletID,
		OldPercent:   log.OldPercent,
		NewPercent:   log.NewPercent,
		ChangedAt:    log.ChangedAt,
	}
}

func ToDomainCommissionLog(model *models.CommissionLogModel) *domain.CommissionLog {
	return &domain.CommissionLog{
		ID:           model.ID,
		TreeID:       model.TreeID,
		FromWalletID: model.FromWalletID,
		ToWalletID:   model.ToWalletID,
		OldPercent:   model.OldPercent,
		NewPercent:   model.NewPercent,
		ChangedAt:    model.ChangedAt,
	}
}

func ToGORMReward(reward *domain.CommissionReward) *models.CommissionRewardModel {
	return &models.CommissionRewardModel{
		ID:               reward.ID,
		TreeID:           reward.TreeID,
		OrderID:          reward.OrderID,
		WalletID:         reward.WalletID,
		SourceWalletID:   reward.SourceWalletID,
		CommissionAmount: reward.CommissionAmount,
		Level:            reward.Level,
		WithdrawalID:     reward.WithdrawalID,
		CreatedAt:        reward.CreatedAt,
	}
}

func ToDomainReward(model *models.CommissionRewardModel) *domain.CommissionReward {
	return &domain.CommissionReward{
		ID:               model.ID,
		TreeID:           model.TreeID,
		OrderID:          model.OrderID,
		WalletID:         model.WalletID,
		SourceWalletID:   model.SourceWalletID,
		CommissionAmount: model.CommissionAmount,
		Level:            model.Level,
		WithdrawalID:     model.WithdrawalID,
		CreatedAt:        model.CreatedAt,
	}
}
