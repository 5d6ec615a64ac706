package usecase

import (
	"errors"
	"log/slog"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	publisher "github.com/bittworld/bg-affiliate-service/internal/infrastructure/kafka"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/metrics"
	commissiondto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/commission"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// defaultCommissionRate is the platform base fee share, 1%.
	defaultCommissionRate = decimal.RequireFromString("0.01")
	// bittworldCommissionRate overrides the base rate for partner-originated
	// trader wallets, 0.7%.
	bittworldCommissionRate = decimal.RequireFromString("0.007")
)

type CommissionEventPublisher interface {
	PublishCommissionDistributed(event publisher.CommissionDistributedEvent) error
}

type DistributionUsecase interface {
	Distribute(input *commissiondto.DistributeInput) (*commissiondto.DistributionSummary, error)
}

type DefaultDistributionUsecase struct {
	affiliateRepo  domain.AffiliateRepository
	rewardRepo     domain.CommissionRewardRepository
	walletProvider domain.WalletProvider
	publisher      CommissionEventPublisher
	metrics        *metrics.AffiliateMetrics
}

func NewDefaultDistributionUsecase(
	affiliateRepo domain.AffiliateRepository,
	rewardRepo domain.CommissionRewardRepository,
	walletProvider domain.WalletProvider,
	eventPublisher CommissionEventPublisher,
	m *metrics.AffiliateMetrics,
) *DefaultDistributionUsecase {
	return &DefaultDistributionUsecase{
		affiliateRepo:  affiliateRepo,
		rewardRepo:     rewardRepo,
		walletProvider: walletProvider,
		publisher:      eventPublisher,
		metrics:        m,
	}
}

// Distribute settles the referral commission for one completed trade.
// Re-invocations with the same order are no-op successes: the first check
// short-circuits on existing rewards and the (tree_id, order_id, wallet_id)
// uniqueness constraint backstops the race inside the insert transaction.
func (uc *DefaultDistributionUsecase) Distribute(input *commissiondto.DistributeInput) (*commissiondto.DistributionSummary, error) {
	start := time.Now()

	if !input.Amount.IsPositive() {
		uc.metrics.RecordDistributionError("invalid_amount")
		return nil, domain.ErrInvalidAmount
	}
	if _, err := uc.affiliateRepo.GetTreeByID(input.TreeID); err != nil {
		uc.metrics.RecordDistributionError("tree_not_found")
		return nil, err
	}

	existing, err := uc.rewardRepo.GetRewardsByOrder(input.TreeID, input.OrderID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return summaryFromExisting(input.TreeID, input.OrderID, existing), nil
	}

	rate := uc.resolveRate(input)
	totalCommission := input.Amount.Mul(rate)

	var (
		rewards []*domain.CommissionReward
		mode    commissiondto.DistributionMode
	)
	if input.TraderWalletID == "" {
		mode = commissiondto.ModeFlat
		rewards, err = uc.buildFlatRewards(input, totalCommission)
	} else {
		mode = commissiondto.ModeReferral
		rewards, err = uc.buildReferralRewards(input, totalCommission)
	}
	if err != nil {
		uc.metrics.RecordDistributionError("build_rewards")
		return nil, err
	}

	if len(rewards) > 0 {
		if err := uc.rewardRepo.SaveRewards(rewards); err != nil {
			if errors.Is(err, domain.ErrAlreadyDistributed) {
				// Lost the race against a concurrent delivery of the
				// same order; the committed rows are the truth.
				committed, fetchErr := uc.rewardRepo.GetRewardsByOrder(input.TreeID, input.OrderID)
				if fetchErr != nil {
					return nil, fetchErr
				}
				return summaryFromExisting(input.TreeID, input.OrderID, committed), nil
			}
			uc.metrics.RecordDistributionError("persist")
			return nil, err
		}
	}

	summary := buildSummary(input, mode, rate, totalCommission, rewards)

	uc.metrics.RecordDistribution(input.TreeID, string(mode), summary.TotalDistributed.InexactFloat64(), time.Since(start).Seconds(), len(rewards))

	if uc.publisher != nil {
		go func(event publisher.CommissionDistributedEvent) {
			if err := uc.publisher.PublishCommissionDistributed(event); err != nil {
				slog.Error("failed to publish CommissionDistributedEvent", "order_id", event.OrderID, "error", err.Error())
			}
		}(buildEvent(summary, input.TraderWalletID))
	}

	return summary, nil
}

func (uc *DefaultDistributionUsecase) resolveRate(input *commissiondto.DistributeInput) decimal.Decimal {
	rate := input.CommissionRate
	if rate.IsZero() {
		rate = defaultCommissionRate
	}
	if input.TraderWalletID == "" || uc.walletProvider == nil {
		return rate
	}
	info, err := uc.walletProvider.GetWalletInfo(input.TraderWalletID)
	if err != nil {
		slog.Warn("wallet flag lookup failed, keeping caller rate", "wallet_id", input.TraderWalletID, "error", err.Error())
		return rate
	}
	if info.IsBittworld {
		return bittworldCommissionRate
	}
	return rate
}

// buildFlatRewards is the legacy no-trader mode: every active node in the
// tree earns its own percent of the pool, with no ancestor walking.
func (uc *DefaultDistributionUsecase) buildFlatRewards(input *commissiondto.DistributeInput, totalCommission decimal.Decimal) ([]*domain.CommissionReward, error) {
	nodes, err := uc.affiliateRepo.GetActiveNodesByTree(input.TreeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rewards := make([]*domain.CommissionReward, 0, len(nodes))
	for _, node := range nodes {
		amount := totalCommission.Mul(node.CommissionPercent).Div(hundred)
		if !amount.IsPositive() {
			continue
		}
		rewards = append(rewards, &domain.CommissionReward{
			ID:               uuid.New().String(),
			TreeID:           input.TreeID,
			OrderID:          input.OrderID,
			WalletID:         node.WalletID,
			CommissionAmount: amount,
			Level:            0,
			CreatedAt:        now,
		})
	}
	return rewards, nil
}

// buildReferralRewards walks the trader's ancestor chain nearest-first and
// pays each active ancestor its marginal share. previousLevelCommission only
// advances on active ancestors, so an inactive link's slice is absorbed by
// the next active ancestor and the chain total stays constant.
func (uc *DefaultDistributionUsecase) buildReferralRewards(input *commissiondto.DistributeInput, totalCommission decimal.Decimal) ([]*domain.CommissionReward, error) {
	trader, err := uc.affiliateRepo.GetNodeByWalletID(input.TraderWalletID)
	if err != nil {
		return nil, err
	}
	if trader.TreeID != input.TreeID {
		return nil, domain.ErrNodeNotFound
	}

	chain, err := uc.affiliateRepo.GetAncestorChain(input.TraderWalletID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	previousLevelCommission := decimal.Zero
	level := 0
	var rewards []*domain.CommissionReward
	for _, ancestor := range chain {
		if !ancestor.IsActive() {
			continue
		}
		level++
		actualPercent := ancestor.CommissionPercent.Sub(previousLevelCommission)
		previousLevelCommission = ancestor.CommissionPercent

		amount := totalCommission.Mul(actualPercent).Div(hundred)
		if !amount.IsPositive() {
			continue
		}
		rewards = append(rewards, &domain.CommissionReward{
			ID:               uuid.New().String(),
			TreeID:           input.TreeID,
			OrderID:          input.OrderID,
			WalletID:         ancestor.WalletID,
			SourceWalletID:   input.TraderWalletID,
			CommissionAmount: amount,
			Level:            level,
			CreatedAt:        now,
		})
	}
	return rewards, nil
}

func buildSummary(input *commissiondto.DistributeInput, mode commissiondto.DistributionMode, rate, totalCommission decimal.Decimal, rewards []*domain.CommissionReward) *commissiondto.DistributionSummary {
	summary := &commissiondto.DistributionSummary{
		TreeID:           input.TreeID,
		OrderID:          input.OrderID,
		Mode:             mode,
		EffectiveRate:    rate,
		TotalCommission:  totalCommission,
		TotalDistributed: decimal.Zero,
		Rewards:          make([]commissiondto.RewardShare, 0, len(rewards)),
	}
	for _, reward := range rewards {
		summary.Rewards = append(summary.Rewards, commissiondto.RewardShare{
			WalletID: reward.WalletID,
			Amount:   reward.CommissionAmount,
			Level:    reward.Level,
		})
		summary.TotalDistributed = summary.TotalDistributed.Add(reward.CommissionAmount)
	}
	return summary
}

// summaryFromExisting rebuilds a summary from the committed reward rows of a
// replayed order. Only the reward list and the distributed total are
// recoverable: the rate and commission pool are not stored per row, so
// EffectiveRate and TotalCommission stay zero when AlreadyDistributed is set.
func summaryFromExisting(treeID, orderID string, rewards []*domain.CommissionReward) *commissiondto.DistributionSummary {
	mode := commissiondto.ModeFlat
	summary := &commissiondto.DistributionSummary{
		TreeID:             treeID,
		OrderID:            orderID,
		TotalDistributed:   decimal.Zero,
		Rewards:            make([]commissiondto.RewardShare, 0, len(rewards)),
		AlreadyDistributed: true,
	}
	for _, reward := range rewards {
		if reward.SourceWalletID != "" {
			mode = commissiondto.ModeReferral
		}
		summary.Rewards = append(summary.Rewards, commissiondto.RewardShare{
			WalletID: reward.WalletID,
			Amount:   reward.CommissionAmount,
			Level:    reward.Level,
		})
		summary.TotalDistributed = summary.TotalDistributed.Add(reward.CommissionAmount)
	}
	summary.Mode = mode
	return summary
}

func buildEvent(summary *commissiondto.DistributionSummary, traderWalletID string) publisher.CommissionDistributedEvent {
	entries := make([]publisher.RewardEntry, 0, len(summary.Rewards))
	for _, share := range summary.Rewards {
		entries = append(entries, publisher.RewardEntry{
			WalletID: share.WalletID,
			Amount:   share.Amount.String(),
			Level:    share.Level,
		})
	}
	return publisher.CommissionDistributedEvent{
		TreeID:          summary.TreeID,
		OrderID:         summary.OrderID,
		TraderWalletID:  traderWalletID,
		Mode:            string(summary.Mode),
		TotalCommission: summary.TotalCommission.String(),
		Rewards:         entries,
		DistributedAt:   time.Now(),
	}
}
