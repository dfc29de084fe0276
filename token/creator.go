// Package token mints the signed session tokens embedded in the userDetails
// handshake, so a game backend can verify that the user context it received
// really came from the gateway.
package token

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const defaultExpiry = 30 * time.Minute

// Creator handles session token creation. The zero key disables minting;
// use Enabled to check before calling.
type Creator struct {
	key    []byte
	expiry time.Duration
}

type CreatorOption func(*Creator)

// WithExpiry overrides the default token lifetime.
func WithExpiry(d time.Duration) CreatorOption {
	return func(c *Creator) { c.expiry = d }
}

// NewCreator creates a session token creator signing with HS256.
func NewCreator(key []byte, options ...CreatorOption) *Creator {
	c := &Creator{key: key, expiry: defaultExpiry}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Enabled reports whether a signing key is configured.
func (c *Creator) Enabled() bool {
	return c != nil && len(c.key) > 0
}

// SessionToken creates a signed token binding the user, tenant and game of
// one session, with the balance snapshot taken at handshake time.
func (c *Creator) SessionToken(userID, tenantName, gameID string, balance float64) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("session token signing key not configured")
	}

	claims := jwtlib.MapClaims{
		"sub":     userID,
		"tenant":  tenantName,
		"game":    gameID,
		"balance": balance,
		"iat":     int64(NowTimeFunc().Unix()),
		"exp":     int64(NowTimeFunc().Add(c.expiry).Unix()),
		"jti":     uuid.New().String(),
	}

	signedToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signedToken, nil
}
