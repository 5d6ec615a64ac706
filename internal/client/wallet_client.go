package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
)

// HTTPWalletClient resolves wallet display info and the Bittworld partner
// flag from the wallet service.
type HTTPWalletClient struct {
	Address string
	client  *http.Client
}

func NewHTTPWalletClient(address string) *HTTPWalletClient {
	return &HTTPWalletClient{
		Address: address,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type walletInfoResponse struct {
	WalletID      string `json:"wallet_id"`
	SolanaAddress string `json:"solana_address"`
	Nickname      string `json:"nickname"`
	IsBittworld   bool   `json:"is_bittworld"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPWalletClient) GetWalletInfo(walletID string) (*domain.WalletInfo, error) {
	response, err := c.client.Get(fmt.Sprintf("%s/wallets/%s", c.Address, walletID))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusNotFound {
		return nil, domain.ErrWalletNotFound
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
			return nil, fmt.Errorf("wallet service returned %d", response.StatusCode)
		}
		return nil, errors.New(errResp.Error)
	}

	var infoResp walletInfoResponse
	if err := json.Unmarshal(responseBodyBytes, &infoResp); err != nil {
		return nil, err
	}

	return &domain.WalletInfo{
		WalletID:      infoResp.WalletID,
		SolanaAddress: infoResp.SolanaAddress,
		Nickname:      infoResp.Nickname,
		IsBittworld:   infoResp.IsBittworld,
	}, nil
}
