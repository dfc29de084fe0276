package config

type Config interface {
	EnvConfig
	GatewayConfig
	WalletConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
}

type mainConfig struct {
	EnvVars
	Gateway
	Wallet
	Security
}

func New() Config {
	return mainConfig{}
}
