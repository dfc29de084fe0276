// Package protocol defines the wire messages exchanged between the gateway
// and an embedded game context. Every message is a tagged union over an
// action field; payload shapes are fixed per action.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Action discriminates the message union.
type Action string

const (
	// Host -> embedded context
	ActionSetParentDomain Action = "setParentDomain"
	ActionUserDetails     Action = "userDetails"

	// Embedded context -> host
	ActionGameLoaded              Action = "gameLoaded"
	ActionGameResult              Action = "gameResult"
	ActionUpdateLocaleAndCurrency Action = "updateLocaleAndCurrency"
	ActionError                   Action = "error"
)

// Direction tags an observed protocol event for inspection purposes.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// Envelope is the outer message frame. SessionID is optional on inbound
// messages; when absent the sender is resolved by context reference.
type Envelope struct {
	Action    Action          `json:"action"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope builds an envelope, marshalling the payload in place.
// A nil payload produces an envelope without a payload field.
func NewEnvelope(action Action, sessionID string, payload any) (Envelope, error) {
	env := Envelope{Action: action, SessionID: sessionID}
	if payload == nil {
		return env, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", action, err)
	}
	env.Payload = raw
	return env, nil
}

// DecodePayload unmarshals the envelope payload into v.
func (e Envelope) DecodePayload(v any) error {
	if len(e.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Action, err)
	}
	return nil
}

// SetParentDomain announces the host's own origin to the embedded context.
// Sent first in the handshake, before user details.
type SetParentDomain struct {
	Domain string `json:"domain"`
}

// UserDetails carries the user and business context for the session. Sent as
// the second handshake message once the context has loaded. SessionToken is
// present only when the gateway is configured with a signing key.
type UserDetails struct {
	TenantName   string  `json:"tenantName"`
	GameID       string  `json:"gameId"`
	UserID       string  `json:"userId"`
	Balance      float64 `json:"balance"`
	CallbackURL  string  `json:"callbackUrl"`
	Locale       string  `json:"locale"`
	Currency     string  `json:"currency"`
	SessionToken string  `json:"sessionToken,omitempty"`
}

// GameResult wraps an opaque result blob reported by the game.
type GameResult struct {
	Data json.RawMessage `json:"data"`
}

// LocaleAndCurrency is a partial update: absent fields leave the session
// untouched.
type LocaleAndCurrency struct {
	Locale   *string `json:"locale,omitempty"`
	Currency *string `json:"currency,omitempty"`
}

// ErrorMessage is an application-level error reported by the game. It does
// not terminate the session.
type ErrorMessage struct {
	Message string `json:"message"`
}
