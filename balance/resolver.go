// Package balance resolves user balances at session creation time. The
// resolver is a plain function so hosts can plug in their own source; the
// built-in WalletClient targets an operator wallet HTTP API.
package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/jrsteele09/go-game-gateway/internal/config"
)

// Resolver fetches the current balance for a user. Resolution failures are
// non-fatal to session creation; the engine falls back to zero.
type Resolver func(ctx context.Context, userID string) (float64, error)

// Fixed returns a resolver that always yields the given amount. Used when
// no wallet backend is configured.
func Fixed(amount float64) Resolver {
	return func(context.Context, string) (float64, error) {
		return amount, nil
	}
}

// WalletClient resolves balances against the operator wallet API,
// authenticating with OAuth2 client credentials.
type WalletClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewWalletClient(cfg config.WalletConfig) *WalletClient {
	ccConfig := clientcredentials.Config{
		ClientID:     cfg.GetWalletClientID(),
		ClientSecret: cfg.GetWalletClientSecret(),
		TokenURL:     cfg.GetWalletTokenURL(),
	}

	httpClient := ccConfig.Client(context.Background())
	httpClient.Timeout = cfg.GetWalletTimeout()

	return &WalletClient{
		baseURL:    cfg.GetWalletAPIURL(),
		httpClient: httpClient,
	}
}

// Resolve fetches GET {base}/users/{id}/balance and decodes the amount.
func (w *WalletClient) Resolve(ctx context.Context, userID string) (float64, error) {
	endpoint := fmt.Sprintf("%s/users/%s/balance", w.baseURL, url.PathEscape(userID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("wallet request: %w", err)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("wallet request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("wallet responded %d", resp.StatusCode)
	}

	var body struct {
		Balance float64 `json:"balance"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("wallet response: %w", err)
	}
	return body.Balance, nil
}
