package gateway

import (
	"encoding/json"

	"github.com/jrsteele09/go-game-gateway/balance"
)

// Config is the host-facing session configuration. GameID doubles as the
// session id. Locale and currency default from the tenant, then the gateway
// configuration, when omitted.
type Config struct {
	GameID         string
	TargetID       string
	EndpointURL    string
	UserID         string
	ResolveBalance balance.Resolver

	TenantName  string
	CallbackURL string
	Locale      string
	Currency    string

	// Inbound event delivery; each defaults to a no-op when nil.
	OnError      func(sessionID, message string)
	OnGameResult func(sessionID string, data json.RawMessage)
	OnGameLoad   func(sessionID string)
}
