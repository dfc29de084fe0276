package config

import "strings"

type GatewayConfig interface {
	GetParentDomain() string
	GetOriginPolicy() string
	GetDefaultLocale() string
	GetDefaultCurrency() string
	GetEmbedTargets() []string
	GetInspectorCapacity() int
	GetSessionTokenKey() string
}

type Gateway struct{}

var _ GatewayConfig = Gateway{}

// GetParentDomain returns the host origin announced to embedded contexts in
// the first handshake message.
func (Gateway) GetParentDomain() string {
	return GetEnv("PARENT_DOMAIN", GetEnv(baseURLVar, "http://localhost:8080"))
}

// GetOriginPolicy selects how inbound messages are authenticated: "strict"
// matches the sender origin against the session endpoint, "context" trusts
// the originating context reference alone.
func (Gateway) GetOriginPolicy() string {
	return GetEnv("ORIGIN_POLICY", "strict")
}

func (Gateway) GetDefaultLocale() string {
	return GetEnv("DEFAULT_LOCALE", "en-US")
}

func (Gateway) GetDefaultCurrency() string {
	return GetEnv("DEFAULT_CURRENCY", "TZS")
}

// GetEmbedTargets lists the container ids sessions may be embedded into.
func (Gateway) GetEmbedTargets() []string {
	targets := strings.Split(GetEnv("EMBED_TARGETS", "main"), ",")
	for i := range targets {
		targets[i] = strings.TrimSpace(targets[i])
	}
	return targets
}

func (Gateway) GetInspectorCapacity() int {
	return 50
}

// GetSessionTokenKey returns the HMAC key used to sign handshake session
// tokens. Empty disables token minting.
func (Gateway) GetSessionTokenKey() string {
	return GetEnv("SESSION_TOKEN_KEY", "")
}
