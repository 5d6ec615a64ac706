package usecase

import (
	"log/slog"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/bittworld/bg-affiliate-service/internal/infrastructure/metrics"
	affiliatedto "github.com/bittworld/bg-affiliate-service/internal/usecase/dto/affiliate"
	"github.com/google/uuid"
)

// AuthorityUsecase mediates every commission-percent, alias and status
// change. It is the only writer allowed to touch those fields, and every
// percent change lands in the audit log inside the same transaction.
type AuthorityUsecase interface {
	UpdateCommissionPercent(input *affiliatedto.UpdateCommissionInput) (*affiliatedto.UpdateCommissionOutput, error)
	UpdateAlias(input *affiliatedto.UpdateAliasInput) error
	SetNodeStatus(input *affiliatedto.SetNodeStatusInput) error
	AdminUpdateRootCommission(input *affiliatedto.AdminUpdateRootCommissionInput) (*affiliatedto.UpdateCommissionOutput, error)
	GetCommissionChangeHistory(walletID string) ([]*domain.CommissionLog, error)
}

type DefaultAuthorityUsecase struct {
	affiliateRepo  domain.AffiliateRepository
	logRepo        domain.CommissionLogRepository
	walletProvider domain.WalletProvider
	cache          DownlineCache
	metrics        *metrics.AffiliateMetrics
}

func NewDefaultAuthorityUsecase(
	repo domain.AffiliateRepository,
	logRepo domain.CommissionLogRepository,
	walletProvider domain.WalletProvider,
	cache DownlineCache,
	m *metrics.AffiliateMetrics,
) *DefaultAuthorityUsecase {
	return &DefaultAuthorityUsecase{
		affiliateRepo:  repo,
		logRepo:        logRepo,
		walletProvider: walletProvider,
		cache:          cache,
		metrics:        m,
	}
}

func (uc *DefaultAuthorityUsecase) UpdateCommissionPercent(input *affiliatedto.UpdateCommissionInput) (*affiliatedto.UpdateCommissionOutput, error) {
	if input.NewPercent.LessThan(percentFloor) || input.NewPercent.GreaterThan(percentCeil) {
		return nil, domain.ErrInvalidRange
	}

	var logEntry domain.CommissionLog
	err := uc.affiliateRepo.Transaction(func(tx domain.AffiliateRepository) error {
		subject, err := tx.GetNodeForUpdate(input.ToWalletID)
		if err != nil {
			return err
		}
		// Only the direct parent may move a node's percent; more distant
		// ancestors are rejected the same as strangers.
		if subject.IsRoot() || *subject.ParentWalletID != input.FromWalletID {
			return domain.ErrForbidden
		}

		actor, err := tx.GetNodeForUpdate(input.FromWalletID)
		if err != nil {
			return err
		}
		if input.NewPercent.GreaterThan(actor.CommissionPercent) {
			return domain.ErrCommissionTooHigh
		}

		maxChild, err := tx.MaxDirectChildPercent(subject.TreeID, subject.WalletID)
		if err != nil {
			return err
		}
		if input.NewPercent.LessThan(maxChild) {
			return domain.ErrCommissionBelowChild
		}

		if err := tx.UpdateNodePercent(subject.WalletID, input.NewPercent); err != nil {
			return err
		}

		logEntry = domain.CommissionLog{
			ID:           uuid.New().String(),
			TreeID:       subject.TreeID,
			FromWalletID: input.FromWalletID,
			ToWalletID:   input.ToWalletID,
			OldPercent:   subject.CommissionPercent,
			NewPercent:   input.NewPercent,
			ChangedAt:    time.Now(),
		}
		return tx.AppendCommissionLog(&logEntry)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordCommissionChange(logEntry.TreeID)
	// cached downline views carry the old percent
	uc.invalidateDownlineViews(input.ToWalletID)

	return uc.buildUpdateOutput(&logEntry), nil
}

func (uc *DefaultAuthorityUsecase) UpdateAlias(input *affiliatedto.UpdateAliasInput) error {
	if err := uc.requireAncestor(input.FromWalletID, input.ToWalletID); err != nil {
		return err
	}
	if err := uc.affiliateRepo.UpdateNodeAlias(input.ToWalletID, input.NewAlias); err != nil {
		return err
	}

	uc.invalidateDownlineViews(input.ToWalletID)
	return nil
}

func (uc *DefaultAuthorityUsecase) SetNodeStatus(input *affiliatedto.SetNodeStatusInput) error {
	if err := uc.requireAncestor(input.FromWalletID, input.ToWalletID); err != nil {
		return err
	}

	status := domain.NodeStatusInactive
	if input.Active {
		status = domain.NodeStatusActive
	}
	if err := uc.affiliateRepo.UpdateNodeStatus(input.ToWalletID, status); err != nil {
		return err
	}

	uc.invalidateDownlineViews(input.ToWalletID)
	return nil
}

func (uc *DefaultAuthorityUsecase) AdminUpdateRootCommission(input *affiliatedto.AdminUpdateRootCommissionInput) (*affiliatedto.UpdateCommissionOutput, error) {
	if input.NewPercent.LessThan(percentFloor) || input.NewPercent.GreaterThan(percentCeil) {
		return nil, domain.ErrInvalidRange
	}

	tree, err := uc.affiliateRepo.GetTreeByRootWallet(input.RootWalletID)
	if err != nil {
		return nil, err
	}

	var logEntry domain.CommissionLog
	err = uc.affiliateRepo.Transaction(func(tx domain.AffiliateRepository) error {
		root, err := tx.GetNodeForUpdate(input.RootWalletID)
		if err != nil {
			return err
		}
		if err := tx.UpdateNodePercent(root.WalletID, input.NewPercent); err != nil {
			return err
		}
		// The tree total and the root node percent must never diverge.
		if err := tx.UpdateTreeTotalPercent(tree.ID, input.NewPercent); err != nil {
			return err
		}

		logEntry = domain.CommissionLog{
			ID:           uuid.New().String(),
			TreeID:       tree.ID,
			FromWalletID: input.RootWalletID,
			ToWalletID:   input.RootWalletID,
			OldPercent:   root.CommissionPercent,
			NewPercent:   input.NewPercent,
			ChangedAt:    time.Now(),
		}
		return tx.AppendCommissionLog(&logEntry)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordCommissionChange(tree.ID)
	uc.invalidateDownlineViews(input.RootWalletID)

	return uc.buildUpdateOutput(&logEntry), nil
}

func (uc *DefaultAuthorityUsecase) GetCommissionChangeHistory(walletID string) ([]*domain.CommissionLog, error) {
	return uc.logRepo.GetByWallet(walletID)
}

// requireAncestor walks the subject's ancestor chain and checks the actor
// appears on it. Cross-tree pairs fail before the walk.
func (uc *DefaultAuthorityUsecase) requireAncestor(fromWalletID, toWalletID string) error {
	subject, err := uc.affiliateRepo.GetNodeByWalletID(toWalletID)
	if err != nil {
		return err
	}
	actor, err := uc.affiliateRepo.GetNodeByWalletID(fromWalletID)
	if err != nil {
		return err
	}
	if actor.TreeID != subject.TreeID {
		return domain.ErrNotInSameTree
	}

	chain, err := uc.affiliateRepo.GetAncestorChain(toWalletID)
	if err != nil {
		return err
	}
	for _, ancestor := range chain {
		if ancestor.WalletID == fromWalletID {
			return nil
		}
	}
	return domain.ErrForbidden
}

func (uc *DefaultAuthorityUsecase) invalidateDownlineViews(walletID string) {
	if uc.cache == nil {
		return
	}
	wallets := []string{walletID}
	if chain, err := uc.affiliateRepo.GetAncestorChain(walletID); err == nil {
		for _, ancestor := range chain {
			wallets = append(wallets, ancestor.WalletID)
		}
	}
	uc.cache.Invalidate(wallets...)
}

func (uc *DefaultAuthorityUsecase) buildUpdateOutput(logEntry *domain.CommissionLog) *affiliatedto.UpdateCommissionOutput {
	return &affiliatedto.UpdateCommissionOutput{
		TreeID:     logEntry.TreeID,
		From:       uc.walletDisplay(logEntry.FromWalletID),
		To:         uc.walletDisplay(logEntry.ToWalletID),
		OldPercent: logEntry.OldPercent,
		NewPercent: logEntry.NewPercent,
		ChangedAt:  logEntry.ChangedAt,
	}
}

// walletDisplay is best-effort: the percent change is already committed,
// so a wallet-service hiccup degrades the summary instead of failing it.
func (uc *DefaultAuthorityUsecase) walletDisplay(walletID string) affiliatedto.WalletDisplay {
	display := affiliatedto.WalletDisplay{WalletID: walletID}
	if node, err := uc.affiliateRepo.GetNodeByWalletID(walletID); err == nil {
		display.Alias = node.Alias
	}
	if uc.walletProvider == nil {
		return display
	}
	info, err := uc.walletProvider.GetWalletInfo(walletID)
	if err != nil {
		slog.Warn("wallet info lookup failed", "wallet_id", walletID, "error", err.Error())
		return display
	}
	display.SolanaAddress = info.SolanaAddress
	display.Nickname = info.Nickname
	return display
}
