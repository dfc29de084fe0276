package balance_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-game-gateway/balance"
)

type walletTestConfig struct{ base string }

func (c walletTestConfig) GetWalletAPIURL() string         { return c.base }
func (c walletTestConfig) GetWalletTokenURL() string       { return c.base + "/oauth/token" }
func (c walletTestConfig) GetWalletClientID() string       { return "wallet-client" }
func (c walletTestConfig) GetWalletClientSecret() string   { return "wallet-secret" }
func (c walletTestConfig) GetWalletTimeout() time.Duration { return 2 * time.Second }

func TestFixedResolver(t *testing.T) {
	resolve := balance.Fixed(75)
	amount, err := resolve(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 75.0, amount)
}

func TestWalletClientResolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
		case "/users/user-1/balance":
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"balance":123.45}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := balance.NewWalletClient(walletTestConfig{base: srv.URL})
	amount, err := client.Resolve(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, 123.45, amount)
}

func TestWalletClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
			return
		}
		http.Error(w, "user unknown", http.StatusNotFound)
	}))
	defer srv.Close()

	client := balance.NewWalletClient(walletTestConfig{base: srv.URL})
	_, err := client.Resolve(context.Background(), "user-1")
	require.Error(t, err)
}
