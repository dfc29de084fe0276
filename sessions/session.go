// Package sessions holds the gateway's record of each embedded game
// instance and the registry that owns the id -> session mapping.
package sessions

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/jrsteele09/go-game-gateway/channel"
)

// State is the lifecycle position of a session. States only advance
// forward; Terminated is reachable from any state.
type State int

const (
	StateCreated State = iota // session registered, no embedded context yet
	StateLoading              // context instantiated, awaiting the load signal
	StateReady                // context loaded, handshake sent
	StateActive               // at least one application-level message exchanged
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Callbacks is the host-facing delivery mechanism for inbound events. Each
// callback defaults to a no-op at construction time so call sites never
// check for nil.
type Callbacks struct {
	OnError      func(sessionID, message string)
	OnGameResult func(sessionID string, data json.RawMessage)
	OnGameLoad   func(sessionID string)
}

func (c Callbacks) withDefaults() Callbacks {
	if c.OnError == nil {
		c.OnError = func(string, string) {}
	}
	if c.OnGameResult == nil {
		c.OnGameResult = func(string, json.RawMessage) {}
	}
	if c.OnGameLoad == nil {
		c.OnGameLoad = func(string) {}
	}
	return c
}

// Session is the registry's record of one embedded game instance. Identity
// and endpoint are immutable; balance, locale, currency and state are
// mutated by the protocol engine only.
type Session struct {
	ID          string
	EndpointURL *url.URL
	UserID      string
	TenantName  string
	CallbackURL string
	Callbacks   Callbacks
	CreatedAt   time.Time

	mu       sync.Mutex
	handle   channel.ContextHandle
	balance  float64
	locale   string
	currency string
	state    State
}

// New creates a session in StateCreated with defaulted callbacks.
func New(id string, endpoint *url.URL, cb Callbacks) *Session {
	return &Session{
		ID:          id,
		EndpointURL: endpoint,
		Callbacks:   cb.withDefaults(),
		CreatedAt:   time.Now(),
		state:       StateCreated,
	}
}

// Origin returns the origin identity of the session's endpoint.
func (s *Session) Origin() string {
	return channel.OriginOf(s.EndpointURL)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// TryAdvance moves the session from one state to the next atomically.
// It reports false when the session is not in the expected state, which
// makes repeated signals (double load, gameResult while already Active)
// naturally idempotent.
func (s *Session) TryAdvance(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from || to < s.state {
		return false
	}
	s.state = to
	return true
}

// Terminate marks the session terminated. Valid from any state.
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateTerminated
}

// BindHandle attaches the embedded context reference once instantiated.
func (s *Session) BindHandle(handle channel.ContextHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = handle
}

func (s *Session) Handle() channel.ContextHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Session) SetBalance(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance = amount
}

func (s *Session) Balance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// SetLocaleCurrency seeds the initial locale and currency.
func (s *Session) SetLocaleCurrency(locale, currency string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
	s.currency = currency
}

// UpdateLocaleCurrency applies a partial update: nil fields are untouched.
func (s *Session) UpdateLocaleCurrency(locale, currency *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if locale != nil {
		s.locale = *locale
	}
	if currency != nil {
		s.currency = *currency
	}
}

func (s *Session) Locale() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

func (s *Session) Currency() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currency
}
