package domain

// WalletInfo is the display and flag data owned by the wallet service.
type WalletInfo struct {
	WalletID      string
	SolanaAddress string
	Nickname      string
	IsBittworld   bool
}

type WalletProvider interface {
	GetWalletInfo(walletID string) (*WalletInfo, error)
}
