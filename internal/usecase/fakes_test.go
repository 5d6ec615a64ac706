package usecase

import (
	"encoding/json"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	publisher "github.com/bittworld/bg-affiliate-service/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
)

// fakeAffiliateRepo keeps trees and nodes in insertion order so traversals
// are deterministic across runs.
type fakeAffiliateRepo struct {
	trees []*domain.AffiliateTree
	nodes []*domain.AffiliateNode
	logs  []*domain.CommissionLog
}

func newFakeAffiliateRepo() *fakeAffiliateRepo {
	return &fakeAffiliateRepo{}
}

func (r *fakeAffiliateRepo) CreateTree(tree *domain.AffiliateTree, rootNode *domain.AffiliateNode) error {
	for _, t := range r.trees {
		if t.RootWalletID == tree.RootWalletID {
			return domain.ErrTreeExists
		}
	}
	if _, err := r.GetNodeByWalletID(rootNode.WalletID); err == nil {
		return domain.ErrAlreadyInTree
	}
	treeCopy := *tree
	nodeCopy := *rootNode
	r.trees = append(r.trees, &treeCopy)
	r.nodes = append(r.nodes, &nodeCopy)
	return nil
}

func (r *fakeAffiliateRepo) GetTreeByID(treeID string) (*domain.AffiliateTree, error) {
	for _, t := range r.trees {
		if t.ID == treeID {
			treeCopy := *t
			return &treeCopy, nil
		}
	}
	return nil, domain.ErrTreeNotFound
}

func (r *fakeAffiliateRepo) GetTreeByRootWallet(rootWalletID string) (*domain.AffiliateTree, error) {
	for _, t := range r.trees {
		if t.RootWalletID == rootWalletID {
			treeCopy := *t
			return &treeCopy, nil
		}
	}
	return nil, domain.ErrTreeNotFound
}

func (r *fakeAffiliateRepo) CreateNode(node *domain.AffiliateNode) error {
	if r.findNode(node.WalletID) != nil {
		return domain.ErrAlreadyInTree
	}
	nodeCopy := *node
	r.nodes = append(r.nodes, &nodeCopy)
	return nil
}

// findNode returns the stored node; exported getters hand out copies the
// way a row-to-entity mapper would.
func (r *fakeAffiliateRepo) findNode(walletID string) *domain.AffiliateNode {
	for _, n := range r.nodes {
		if n.WalletID == walletID {
			return n
		}
	}
	return nil
}

func (r *fakeAffiliateRepo) GetNodeByWalletID(walletID string) (*domain.AffiliateNode, error) {
	node := r.findNode(walletID)
	if node == nil {
		return nil, domain.ErrNodeNotFound
	}
	nodeCopy := *node
	return &nodeCopy, nil
}

func (r *fakeAffiliateRepo) GetNodeByReferralCode(code string) (*domain.AffiliateNode, error) {
	for _, n := range r.nodes {
		if n.ReferralCode == code {
			nodeCopy := *n
			return &nodeCopy, nil
		}
	}
	return nil, domain.ErrReferralCodeNotFound
}

func (r *fakeAffiliateRepo) GetChildren(treeID, parentWalletID string) ([]*domain.AffiliateNode, error) {
	var children []*domain.AffiliateNode
	for _, n := range r.nodes {
		if n.TreeID == treeID && n.ParentWalletID != nil && *n.ParentWalletID == parentWalletID {
			nodeCopy := *n
			children = append(children, &nodeCopy)
		}
	}
	return children, nil
}

func (r *fakeAffiliateRepo) GetActiveNodesByTree(treeID string) ([]*domain.AffiliateNode, error) {
	var nodes []*domain.AffiliateNode
	for _, n := range r.nodes {
		if n.TreeID == treeID && n.IsActive() {
			nodeCopy := *n
			nodes = append(nodes, &nodeCopy)
		}
	}
	return nodes, nil
}

func (r *fakeAffiliateRepo) GetAncestorChain(walletID string) ([]*domain.AffiliateNode, error) {
	node, err := r.GetNodeByWalletID(walletID)
	if err != nil {
		return nil, err
	}

	var chain []*domain.AffiliateNode
	for node.ParentWalletID != nil {
		if len(chain) >= domain.MaxTreeDepth {
			return nil, domain.ErrMaxDepthExceeded
		}
		parent, err := r.GetNodeByWalletID(*node.ParentWalletID)
		if err != nil {
			return nil, domain.ErrParentNotFound
		}
		chain = append(chain, parent)
		node = parent
	}
	return chain, nil
}

func (r *fakeAffiliateRepo) GetNodeForUpdate(walletID string) (*domain.AffiliateNode, error) {
	return r.GetNodeByWalletID(walletID)
}

func (r *fakeAffiliateRepo) mustUpdate(walletID string, mutate func(*domain.AffiliateNode)) error {
	node := r.findNode(walletID)
	if node == nil {
		return domain.ErrNodeNotFound
	}
	mutate(node)
	return nil
}

func (r *fakeAffiliateRepo) MaxDirectChildPercent(treeID, parentWalletID string) (decimal.Decimal, error) {
	max := decimal.Zero
	children, _ := r.GetChildren(treeID, parentWalletID)
	for _, child := range children {
		if child.CommissionPercent.GreaterThan(max) {
			max = child.CommissionPercent
		}
	}
	return max, nil
}

func (r *fakeAffiliateRepo) UpdateNodePercent(walletID string, percent decimal.Decimal) error {
	return r.mustUpdate(walletID, func(n *domain.AffiliateNode) { n.CommissionPercent = percent })
}

func (r *fakeAffiliateRepo) UpdateNodeAlias(walletID, alias string) error {
	return r.mustUpdate(walletID, func(n *domain.AffiliateNode) { n.Alias = alias })
}

func (r *fakeAffiliateRepo) UpdateNodeStatus(walletID string, status domain.NodeStatus) error {
	return r.mustUpdate(walletID, func(n *domain.AffiliateNode) { n.Status = status })
}

func (r *fakeAffiliateRepo) UpdateTreeTotalPercent(treeID string, percent decimal.Decimal) error {
	for _, t := range r.trees {
		if t.ID == treeID {
			t.TotalCommissionPercent = percent
			return nil
		}
	}
	return domain.ErrTreeNotFound
}

func (r *fakeAffiliateRepo) AppendCommissionLog(log *domain.CommissionLog) error {
	logCopy := *log
	r.logs = append(r.logs, &logCopy)
	return nil
}

func (r *fakeAffiliateRepo) Transaction(fn func(tx domain.AffiliateRepository) error) error {
	return fn(r)
}

type fakeRewardRepo struct {
	rewards []*domain.CommissionReward
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{}
}

func (r *fakeRewardRepo) SaveRewards(rewards []*domain.CommissionReward) error {
	for _, reward := range rewards {
		for _, existing := range r.rewards {
			if existing.TreeID == reward.TreeID && existing.OrderID == reward.OrderID && existing.WalletID == reward.WalletID {
				return domain.ErrAlreadyDistributed
			}
		}
	}
	for _, reward := range rewards {
		rewardCopy := *reward
		r.rewards = append(r.rewards, &rewardCopy)
	}
	return nil
}

func (r *fakeRewardRepo) GetRewardsByOrder(treeID, orderID string) ([]*domain.CommissionReward, error) {
	var out []*domain.CommissionReward
	for _, reward := range r.rewards {
		if reward.TreeID == treeID && reward.OrderID == orderID {
			out = append(out, reward)
		}
	}
	return out, nil
}

func (r *fakeRewardRepo) GetRewardsByWallet(walletID string, includeWithdrawn bool) ([]*domain.CommissionReward, error) {
	var out []*domain.CommissionReward
	for _, reward := range r.rewards {
		if reward.WalletID != walletID {
			continue
		}
		if reward.IsWithdrawn() && !includeWithdrawn {
			continue
		}
		out = append(out, reward)
	}
	return out, nil
}

func (r *fakeRewardRepo) SumRewards(walletID string, filter domain.RewardFilter) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, reward := range r.rewards {
		if reward.WalletID != walletID {
			continue
		}
		if filter.SourceWalletID != "" && reward.SourceWalletID != filter.SourceWalletID {
			continue
		}
		if filter.From != nil && reward.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && reward.CreatedAt.After(*filter.To) {
			continue
		}
		sum = sum.Add(reward.CommissionAmount)
	}
	return sum, nil
}

// fakeLogRepo reads the audit rows the affiliate repo appended, matching
// the production split between write and read sides.
type fakeLogRepo struct {
	repo *fakeAffiliateRepo
}

func (r *fakeLogRepo) GetByWallet(walletID string) ([]*domain.CommissionLog, error) {
	var out []*domain.CommissionLog
	for _, log := range r.repo.logs {
		if log.FromWalletID == walletID || log.ToWalletID == walletID {
			out = append(out, log)
		}
	}
	return out, nil
}

type fakeWalletProvider struct {
	wallets map[string]*domain.WalletInfo
	err     error
}

func (p *fakeWalletProvider) GetWalletInfo(walletID string) (*domain.WalletInfo, error) {
	if p.err != nil {
		return nil, p.err
	}
	if info, ok := p.wallets[walletID]; ok {
		return info, nil
	}
	return &domain.WalletInfo{WalletID: walletID}, nil
}

type fakeTradingStats struct {
	stats map[string]*domain.TradeStats
}

func (p *fakeTradingStats) GetWalletTradeStats(walletID string, from, to *time.Time) (*domain.TradeStats, error) {
	if stats, ok := p.stats[walletID]; ok {
		return stats, nil
	}
	return &domain.TradeStats{TotalVolume: decimal.Zero}, nil
}

type recordingCache struct {
	store       map[string][]byte
	invalidated []string
}

func newRecordingCache() *recordingCache {
	return &recordingCache{store: make(map[string][]byte)}
}

func (c *recordingCache) Get(walletID string, v interface{}) bool {
	raw, ok := c.store[walletID]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (c *recordingCache) Set(walletID string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.store[walletID] = raw
}

func (c *recordingCache) Invalidate(walletIDs ...string) {
	for _, walletID := range walletIDs {
		delete(c.store, walletID)
		c.invalidated = append(c.invalidated, walletID)
	}
}

type capturingPublisher struct {
	events chan publisher.CommissionDistributedEvent
}

func newCapturingPublisher() *capturingPublisher {
	return &capturingPublisher{events: make(chan publisher.CommissionDistributedEvent, 8)}
}

func (p *capturingPublisher) PublishCommissionDistributed(event publisher.CommissionDistributedEvent) error {
	p.events <- event
	return nil
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}

// seedNode inserts a node directly, bypassing usecase validation, so tests
// can shape arbitrary trees.
func seedNode(repo *fakeAffiliateRepo, treeID, walletID string, parentWalletID *string, percent string, status domain.NodeStatus) *domain.AffiliateNode {
	node := &domain.AffiliateNode{
		ID:                "node-" + walletID,
		TreeID:            treeID,
		WalletID:          walletID,
		ParentWalletID:    parentWalletID,
		CommissionPercent: mustDecimal(percent),
		Status:            status,
		ReferralCode:      "ref-" + walletID,
		EffectiveFrom:     time.Now(),
	}
	repo.nodes = append(repo.nodes, node)
	return node
}

func seedTree(repo *fakeAffiliateRepo, treeID, rootWalletID, totalPercent string) *domain.AffiliateTree {
	tree := &domain.AffiliateTree{
		ID:                     treeID,
		RootWalletID:           rootWalletID,
		TotalCommissionPercent: mustDecimal(totalPercent),
		CreatedAt:              time.Now(),
	}
	repo.trees = append(repo.trees, tree)
	seedNode(repo, treeID, rootWalletID, nil, totalPercent, domain.NodeStatusActive)
	return tree
}
