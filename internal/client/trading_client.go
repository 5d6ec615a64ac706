package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bittworld/bg-affiliate-service/internal/domain"
	"github.com/shopspring/decimal"
)

// HTTPTradingClient queries per-wallet trade aggregates from the
// trading-order service, optionally narrowed by a date range.
type HTTPTradingClient struct {
	Address string
	client  *http.Client
}

func NewHTTPTradingClient(address string) *HTTPTradingClient {
	return &HTTPTradingClient{
		Address: address,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type tradeStatsResponse struct {
	TotalVolume string     `json:"total_volume"`
	TotalTrans  int64      `json:"total_trans"`
	LastTradeAt *time.Time `json:"last_trade_at,omitempty"`
}

func (c *HTTPTradingClient) GetWalletTradeStats(walletID string, from, to *time.Time) (*domain.TradeStats, error) {
	query := url.Values{}
	if from != nil {
		query.Set("from", from.Format(time.RFC3339))
	}
	if to != nil {
		query.Set("to", to.Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("%s/wallets/%s/trade-stats", c.Address, walletID)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	response, err := c.client.Get(endpoint)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
			return nil, fmt.Errorf("trading service returned %d", response.StatusCode)
		}
		return nil, errors.New(errResp.Error)
	}

	var statsResp tradeStatsResponse
	if err := json.Unmarshal(responseBodyBytes, &statsResp); err != nil {
		return nil, err
	}

	volume, err := decimal.NewFromString(statsResp.TotalVolume)
	if err != nil {
		return nil, fmt.Errorf("invalid total_volume %q: %w", statsResp.TotalVolume, err)
	}

	return &domain.TradeStats{
		TotalVolume: volume,
		TotalTrans:  statsResp.TotalTrans,
		LastTradeAt: statsResp.LastTradeAt,
	}, nil
}
