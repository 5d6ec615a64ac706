package usecase

import (
	"errors"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/metrics"
	affiliatedto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/affiliate"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/shopspring/decimal"
)

var (
	percentFloor = decimal.Zero
	percentCeil  = decimal.NewFromInt(100)

	// defaultTotalCommissionPercent applies when a root registers
	// without an explicit pool share.
	defaultTotalCommissionPercent = decimal.RequireFromString("70.00")
)

// DownlineCache is the read-side cache consulted by the query layer and
// invalidated by tree mutations. Implementations must tolerate misses.
type DownlineCache interface {
	Get(walletID string, v interface{}) bool
	Set(walletID string, v interface{})
	Invalidate(walletIDs ...string)
}

type TreeUsecase interface {
	CreateTree(input *affiliatedto.CreateTreeInput) (*affiliatedto.TreeOutput, error)
	AttachNode(input *affiliatedto.AttachNodeInput) (*domain.AffiliateNode, error)
	AttachNodeByReferralCode(input *affiliatedto.AttachByReferralCodeInput) (*domain.AffiliateNode, error)
	GetNode(walletID string) (*domain.AffiliateNode, error)
	GetAncestorChain(walletID string) ([]*domain.AffiliateNode, error)
}

type DefaultTreeUsecase struct {
	affiliateRepo domain.AffiliateRepository
	cache         DownlineCache
	metrics       *metrics.AffiliateMetrics
}

func NewDefaultTreeUsecase(repo domain.AffiliateRepository, cache DownlineCache, m *metrics.AffiliateMetrics) *DefaultTreeUsecase {
	return &DefaultTreeUsecase{
		affiliateRepo: repo,
		cache:         cache,
		metrics:       m,
	}
}

func (uc *DefaultTreeUsecase) CreateTree(input *affiliatedto.CreateTreeInput) (*affiliatedto.TreeOutput, error) {
	totalPercent := input.TotalCommissionPercent
	if totalPercent.IsZero() {
		totalPercent = defaultTotalCommissionPercent
	}
	if totalPercent.LessThan(percentFloor) || totalPercent.GreaterThan(percentCeil) {
		return nil, domain.ErrInvalidRange
	}

	if _, err := uc.affiliateRepo.GetTreeByRootWallet(input.RootWalletID); err == nil {
		return nil, domain.ErrTreeExists
	} else if !errors.Is(err, domain.ErrTreeNotFound) {
		return nil, err
	}
	if _, err := uc.affiliateRepo.GetNodeByWalletID(input.RootWalletID); err == nil {
		return nil, domain.ErrAlreadyInTree
	} else if !errors.Is(err, domain.ErrNodeNotFound) {
		return nil, err
	}

	code, err := newReferralCode()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tree := domain.AffiliateTree{
		ID:                     uuid.New().String(),
		RootWalletID:           input.RootWalletID,
		TotalCommissionPercent: totalPercent,
		Alias:                  input.Alias,
		CreatedAt:              now,
	}
	rootNode := domain.AffiliateNode{
		ID:                uuid.New().String(),
		TreeID:            tree.ID,
		WalletID:          input.RootWalletID,
		ParentWalletID:    nil,
		CommissionPercent: totalPercent,
		Status:            domain.NodeStatusActive,
		Alias:             input.Alias,
		ReferralCode:      code,
		EffectiveFrom:     now,
	}

	if err := uc.affiliateRepo.CreateTree(&tree, &rootNode); err != nil {
		return nil, err
	}

	return &affiliatedto.TreeOutput{
		Tree:     tree,
		RootNode: rootNode,
	}, nil
}

func (uc *DefaultTreeUsecase) AttachNode(input *affiliatedto.AttachNodeInput) (*domain.AffiliateNode, error) {
	if input.CommissionPercent.LessThan(percentFloor) || input.CommissionPercent.GreaterThan(percentCeil) {
		return nil, domain.ErrInvalidRange
	}
	if _, err := uc.affiliateRepo.GetTreeByID(input.TreeID); err != nil {
		return nil, err
	}
	if _, err := uc.affiliateRepo.GetNodeByWalletID(input.WalletID); err == nil {
		return nil, domain.ErrAlreadyInTree
	} else if !errors.Is(err, domain.ErrNodeNotFound) {
		return nil, err
	}

	// Roots only ever come from CreateTree; every attached node needs a
	// parent inside the same tree.
	if input.ParentWalletID == "" {
		return nil, domain.ErrParentNotFound
	}
	parent, err := uc.affiliateRepo.GetNodeByWalletID(input.ParentWalletID)
	if err != nil {
		if errors.Is(err, domain.ErrNodeNotFound) {
			return nil, domain.ErrParentNotFound
		}
		return nil, err
	}
	if parent.TreeID != input.TreeID {
		return nil, domain.ErrParentNotFound
	}
	if input.CommissionPercent.GreaterThan(parent.CommissionPercent) {
		return nil, domain.ErrCommissionTooHigh
	}

	code, err := newReferralCode()
	if err != nil {
		return nil, err
	}

	parentWalletID := parent.WalletID
	node := domain.AffiliateNode{
		ID:                uuid.New().String(),
		TreeID:            input.TreeID,
		WalletID:          input.WalletID,
		ParentWalletID:    &parentWalletID,
		CommissionPercent: input.CommissionPercent,
		Status:            domain.NodeStatusActive,
		Alias:             input.Alias,
		ReferralCode:      code,
		EffectiveFrom:     time.Now(),
	}

	if err := uc.affiliateRepo.CreateNode(&node); err != nil {
		return nil, err
	}

	uc.metrics.RecordNodeAttached(node.TreeID)
	uc.invalidateAncestors(&node)

	return &node, nil
}

func (uc *DefaultTreeUsecase) AttachNodeByReferralCode(input *affiliatedto.AttachByReferralCodeInput) (*domain.AffiliateNode, error) {
	parent, err := uc.affiliateRepo.GetNodeByReferralCode(input.ReferralCode)
	if err != nil {
		return nil, err
	}

	return uc.AttachNode(&affiliatedto.AttachNodeInput{
		TreeID:            parent.TreeID,
		WalletID:          input.WalletID,
		ParentWalletID:    parent.WalletID,
		CommissionPercent: input.CommissionPercent,
		Alias:             input.Alias,
	})
}

func (uc *DefaultTreeUsecase) GetNode(walletID string) (*domain.AffiliateNode, error) {
	return uc.affiliateRepo.GetNodeByWalletID(walletID)
}

func (uc *DefaultTreeUsecase) GetAncestorChain(walletID string) ([]*domain.AffiliateNode, error) {
	return uc.affiliateRepo.GetAncestorChain(walletID)
}

// invalidateAncestors drops cached downline views for every wallet whose
// downline just changed.
func (uc *DefaultTreeUsecase) invalidateAncestors(node *domain.AffiliateNode) {
	if uc.cache == nil {
		return
	}
	chain, err := uc.affiliateRepo.GetAncestorChain(node.WalletID)
	if err != nil {
		return
	}
	wallets := make([]string, 0, len(chain)+1)
	wallets = append(wallets, node.WalletID)
	for _, ancestor := range chain {
		wallets = append(wallets, ancestor.WalletID)
	}
	uc.cache.Invalidate(wallets...)
}

func newReferralCode() (string, error) {
	gen, err := nanoid.Standard(15)
	if err != nil {
		return "", err
	}
	return gen(), nil
}
