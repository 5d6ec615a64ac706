package usecase

import (
	"sort"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	statsdto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/stats"
	"github.com/shopspring/decimal"
)

// QueryUsecase is the read-only view layer over the tree store and reward
// history. It never mutates state.
type QueryUsecase interface {
	GetDownlineTree(walletID string) (*statsdto.DownlineTreeNode, error)
	GetDownlineStats(walletID string, filter *statsdto.StatsFilter) (*statsdto.DownlineStatsOutput, error)
	GetWalletCommissionHistory(walletID string, includeWithdrawn bool) ([]*domain.CommissionReward, error)
	IsInDownlineOf(fromWalletID, targetWalletID string) (bool, error)
}

type DefaultQueryUsecase struct {
	affiliateRepo domain.AffiliateRepository
	rewardRepo    domain.CommissionRewardRepository
	tradingStats  domain.TradingStatsProvider
	cache         DownlineCache
}

func NewDefaultQueryUsecase(
	affiliateRepo domain.AffiliateRepository,
	rewardRepo domain.CommissionRewardRepository,
	tradingStats domain.TradingStatsProvider,
	cache DownlineCache,
) *DefaultQueryUsecase {
	return &DefaultQueryUsecase{
		affiliateRepo: affiliateRepo,
		rewardRepo:    rewardRepo,
		tradingStats:  tradingStats,
		cache:         cache,
	}
}

func (uc *DefaultQueryUsecase) GetDownlineTree(walletID string) (*statsdto.DownlineTreeNode, error) {
	if uc.cache != nil {
		var cached statsdto.DownlineTreeNode
		if uc.cache.Get(walletID, &cached) {
			return &cached, nil
		}
	}

	node, err := uc.affiliateRepo.GetNodeByWalletID(walletID)
	if err != nil {
		return nil, err
	}

	root := &statsdto.DownlineTreeNode{
		WalletID:          node.WalletID,
		Alias:             node.Alias,
		CommissionPercent: node.CommissionPercent,
		Level:             0,
		TotalReward:       decimal.Zero,
	}
	if err := uc.annotateTradeStats(root); err != nil {
		return nil, err
	}
	if err := uc.buildSubtree(walletID, node, root, 1); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(walletID, root)
	}
	return root, nil
}

// buildSubtree recurses through active children only. The depth bound mirrors
// the ancestor-walk guard: the tree is acyclic by construction, but corrupted
// data must not take the query layer down with it.
func (uc *DefaultQueryUsecase) buildSubtree(viewerWalletID string, node *domain.AffiliateNode, out *statsdto.DownlineTreeNode, level int) error {
	if level > domain.MaxTreeDepth {
		return domain.ErrMaxDepthExceeded
	}

	children, err := uc.affiliateRepo.GetChildren(node.TreeID, node.WalletID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if !child.IsActive() {
			continue
		}
		childOut := &statsdto.DownlineTreeNode{
			WalletID:          child.WalletID,
			Alias:             child.Alias,
			CommissionPercent: child.CommissionPercent,
			Level:             level,
		}
		if err := uc.annotateTradeStats(childOut); err != nil {
			return err
		}
		reward, err := uc.rewardRepo.SumRewards(viewerWalletID, domain.RewardFilter{SourceWalletID: child.WalletID})
		if err != nil {
			return err
		}
		childOut.TotalReward = reward

		if err := uc.buildSubtree(viewerWalletID, child, childOut, level+1); err != nil {
			return err
		}
		out.Children = append(out.Children, childOut)
	}
	return nil
}

func (uc *DefaultQueryUsecase) GetDownlineStats(walletID string, filter *statsdto.StatsFilter) (*statsdto.DownlineStatsOutput, error) {
	if filter == nil {
		filter = &statsdto.StatsFilter{}
	}

	node, err := uc.affiliateRepo.GetNodeByWalletID(walletID)
	if err != nil {
		return nil, err
	}

	var members []statsdto.MemberStats
	if err := uc.collectMembers(walletID, node, 1, filter, &members); err != nil {
		return nil, err
	}

	members = applyStatsFilter(members, filter)
	sortMembers(members, filter)

	// Buckets are computed over the filtered set so per-level totals match
	// the member list the caller actually sees.
	out := &statsdto.DownlineStatsOutput{
		Members:         members,
		MembersByLevel:  make(map[int]*statsdto.LevelBucket),
		TotalMembers:    len(members),
		TotalCommission: decimal.Zero,
		TotalVolume:     decimal.Zero,
	}
	for _, m := range members {
		bucket, ok := out.MembersByLevel[m.Level]
		if !ok {
			bucket = &statsdto.LevelBucket{
				TotalCommission: decimal.Zero,
				TotalVolume:     decimal.Zero,
			}
			out.MembersByLevel[m.Level] = bucket
		}
		bucket.Members++
		bucket.TotalCommission = bucket.TotalCommission.Add(m.CommissionEarned)
		bucket.TotalVolume = bucket.TotalVolume.Add(m.TotalVolume)
		bucket.TotalTrans += m.TotalTrans

		out.TotalCommission = out.TotalCommission.Add(m.CommissionEarned)
		out.TotalVolume = out.TotalVolume.Add(m.TotalVolume)
		out.TotalTrans += m.TotalTrans
	}
	return out, nil
}

func (uc *DefaultQueryUsecase) collectMembers(viewerWalletID string, node *domain.AffiliateNode, level int, filter *statsdto.StatsFilter, members *[]statsdto.MemberStats) error {
	if level > domain.MaxTreeDepth {
		return domain.ErrMaxDepthExceeded
	}

	children, err := uc.affiliateRepo.GetChildren(node.TreeID, node.WalletID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if !child.IsActive() {
			continue
		}

		earned, err := uc.rewardRepo.SumRewards(viewerWalletID, domain.RewardFilter{
			SourceWalletID: child.WalletID,
			From:           filter.From,
			To:             filter.To,
		})
		if err != nil {
			return err
		}
		stats, err := uc.tradingStats.GetWalletTradeStats(child.WalletID, filter.From, filter.To)
		if err != nil {
			return err
		}

		*members = append(*members, statsdto.MemberStats{
			WalletID:          child.WalletID,
			Alias:             child.Alias,
			Level:             level,
			CommissionPercent: child.CommissionPercent,
			CommissionEarned:  earned,
			TotalVolume:       stats.TotalVolume,
			TotalTrans:        stats.TotalTrans,
			JoinedAt:          child.EffectiveFrom,
		})

		if err := uc.collectMembers(viewerWalletID, child, level+1, filter, members); err != nil {
			return err
		}
	}
	return nil
}

func (uc *DefaultQueryUsecase) GetWalletCommissionHistory(walletID string, includeWithdrawn bool) ([]*domain.CommissionReward, error) {
	return uc.rewardRepo.GetRewardsByWallet(walletID, includeWithdrawn)
}

// IsInDownlineOf reports whether targetWalletID sits anywhere below
// fromWalletID. Used to gate cross-wallet visibility.
func (uc *DefaultQueryUsecase) IsInDownlineOf(fromWalletID, targetWalletID string) (bool, error) {
	chain, err := uc.affiliateRepo.GetAncestorChain(targetWalletID)
	if err != nil {
		return false, err
	}
	for _, ancestor := range chain {
		if ancestor.WalletID == fromWalletID {
			return true, nil
		}
	}
	return false, nil
}

func (uc *DefaultQueryUsecase) annotateTradeStats(out *statsdto.DownlineTreeNode) error {
	stats, err := uc.tradingStats.GetWalletTradeStats(out.WalletID, nil, nil)
	if err != nil {
		return err
	}
	out.TotalVolume = stats.TotalVolume
	out.TotalTrans = stats.TotalTrans
	return nil
}

func applyStatsFilter(members []statsdto.MemberStats, filter *statsdto.StatsFilter) []statsdto.MemberStats {
	filtered := make([]statsdto.MemberStats, 0, len(members))
	for _, m := range members {
		if filter.Level != nil && m.Level != *filter.Level {
			continue
		}
		if filter.MinCommission != nil && m.CommissionEarned.LessThan(*filter.MinCommission) {
			continue
		}
		if filter.MaxCommission != nil && m.CommissionEarned.GreaterThan(*filter.MaxCommission) {
			continue
		}
		if filter.MinVolume != nil && m.TotalVolume.LessThan(*filter.MinVolume) {
			continue
		}
		if filter.MaxVolume != nil && m.TotalVolume.GreaterThan(*filter.MaxVolume) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

func sortMembers(members []statsdto.MemberStats, filter *statsdto.StatsFilter) {
	key := filter.SortBy
	if key == "" {
		key = statsdto.SortByCommission
	}
	desc := filter.SortOrder != statsdto.SortAsc

	sort.SliceStable(members, func(i, j int) bool {
		var less bool
		switch key {
		case statsdto.SortByVolume:
			less = members[i].TotalVolume.LessThan(members[j].TotalVolume)
		case statsdto.SortByTransactions:
			less = members[i].TotalTrans < members[j].TotalTrans
		case statsdto.SortByLevel:
			less = members[i].Level < members[j].Level
		default:
			less = members[i].CommissionEarned.LessThan(members[j].CommissionEarned)
		}
		if desc {
			return !less && !statsEqual(members[i], members[j], key)
		}
		return less
	})
}

func statsEqual(a, b statsdto.MemberStats, key statsdto.SortKey) bool {
	switch key {
	case statsdto.SortByVolume:
		return a.TotalVolume.Equal(b.TotalVolume)
	case statsdto.SortByTransactions:
		return a.TotalTrans == b.TotalTrans
	case statsdto.SortByLevel:
		return a.Level == b.Level
	default:
		return a.CommissionEarned.Equal(b.CommissionEarned)
	}
}
