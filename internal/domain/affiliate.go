package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type NodeStatus string

const (
	NodeStatusActive   NodeStatus = "ACTIVE"
	NodeStatusInactive NodeStatus = "INACTIVE"
)

// MaxTreeDepth bounds every ancestor walk so corrupted parent links
// cannot loop forever.
const MaxTreeDepth = 64

type AffiliateTree struct {
	ID                     string
	RootWalletID           string
	TotalCommissionPercent decimal.Decimal
	Alias                  string
	CreatedAt              time.Time
}

type AffiliateNode struct {
	ID                string
	TreeID            string
	WalletID          string
	ParentWalletID    *string
	CommissionPercent decimal.Decimal
	Status            NodeStatus
	Alias             string
	ReferralCode      string
	EffectiveFrom     time.Time
}

func (n *AffiliateNode) IsRoot() bool {
	return n.ParentWalletID == nil
}

func (n *AffiliateNode) IsActive() bool {
	return n.Status == NodeStatusActive
}

type AffiliateRepository interface {
	CreateTree(tree *AffiliateTree, rootNode *AffiliateNode) error
	GetTreeByID(treeID string) (*AffiliateTree, error)
	GetTreeByRootWallet(rootWalletID string) (*AffiliateTree, error)

	CreateNode(node *AffiliateNode) error
	GetNodeByWalletID(walletID string) (*AffiliateNode, error)
	GetNodeByReferralCode(code string) (*AffiliateNode, error)
	GetChildren(treeID, parentWalletID string) ([]*AffiliateNode, error)
	GetActiveNodesByTree(treeID string) ([]*AffiliateNode, error)

	// GetAncestorChain returns the node's ancestors ordered from immediate
	// parent to root. The walk is bounded by MaxTreeDepth and returns
	// ErrMaxDepthExceeded instead of looping on malformed parent links.
	GetAncestorChain(walletID string) ([]*AffiliateNode, error)

	// GetNodeForUpdate locks the node row until the surrounding
	// transaction completes. Only meaningful inside Transaction.
	GetNodeForUpdate(walletID string) (*AffiliateNode, error)
	MaxDirectChildPercent(treeID, parentWalletID string) (decimal.Decimal, error)

	UpdateNodePercent(walletID string, percent decimal.Decimal) error
	UpdateNodeAlias(walletID, alias string) error
	UpdateNodeStatus(walletID string, status NodeStatus) error
	UpdateTreeTotalPercent(treeID string, percent decimal.Decimal) error

	// AppendCommissionLog writes an audit row; called inside the same
	// transaction as the percent change it records.
	AppendCommissionLog(log *CommissionLog) error

	// Transaction runs fn against a repository bound to a single
	// database transaction, committing on nil and rolling back on error.
	Transaction(fn func(tx AffiliateRepository) error) error
}
