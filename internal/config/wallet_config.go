package config

import "time"

type WalletConfig interface {
	GetWalletAPIURL() string
	GetWalletTokenURL() string
	GetWalletClientID() string
	GetWalletClientSecret() string
	GetWalletTimeout() time.Duration
}

type Wallet struct{}

var _ WalletConfig = Wallet{}

// GetWalletAPIURL returns the operator wallet base URL used to resolve user
// balances. Empty disables the wallet client; sessions then resolve to zero.
func (Wallet) GetWalletAPIURL() string {
	return GetEnv("WALLET_API_URL", "")
}

func (Wallet) GetWalletTokenURL() string {
	return GetEnv("WALLET_TOKEN_URL", "")
}

func (Wallet) GetWalletClientID() string {
	return GetEnv("WALLET_CLIENT_ID", "")
}

func (Wallet) GetWalletClientSecret() string {
	return GetEnv("WALLET_CLIENT_SECRET", "")
}

func (Wallet) GetWalletTimeout() time.Duration {
	return 5 * time.Second
}
