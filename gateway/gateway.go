// Package gateway is the protocol engine: it owns the session lifecycle
// state machine, performs the initialization handshake with embedded game
// contexts, and routes inbound messages to the owning session's callbacks.
package gateway

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/internal/config"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
	"github.com/jrsteele09/go-game-gateway/inspector"
	"github.com/jrsteele09/go-game-gateway/sessions"
	"github.com/jrsteele09/go-game-gateway/tenants"
	"github.com/jrsteele09/go-game-gateway/token"
)

// OriginPolicy selects how inbound messages are authenticated.
type OriginPolicy string

const (
	// OriginPolicyStrict requires the sender origin to match the session
	// endpoint's origin.
	OriginPolicyStrict OriginPolicy = "strict"
	// OriginPolicyContextIdentity accepts any origin and authenticates by
	// the originating context reference alone (the looser legacy variant).
	OriginPolicyContextIdentity OriginPolicy = "context"
)

// ParseOriginPolicy maps a config string onto a policy, defaulting to
// strict. The looser variant must be opted into explicitly.
func ParseOriginPolicy(s string) OriginPolicy {
	if s == string(OriginPolicyContextIdentity) {
		return OriginPolicyContextIdentity
	}
	return OriginPolicyStrict
}

// Repos holds the collaborator dependencies of the engine. Registry and
// Channel are required; Tenants supplies per-brand session defaults and
// Inspector passively records protocol traffic, both optional.
type Repos struct {
	Registry  *sessions.Registry
	Channel   channel.Channel
	Tenants   tenants.Repo
	Inspector inspector.Hook
}

// Service is the protocol engine. All lifecycle mutation of sessions flows
// through it; hosts interact via CreateSession, RemoveSession and the
// callbacks carried on each session config.
type Service struct {
	repos           Repos
	targets         map[string]struct{}
	parentDomain    string
	originPolicy    OriginPolicy
	defaultLocale   string
	defaultCurrency string
	tokenCreator    *token.Creator
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

// WithOriginPolicy overrides the configured origin policy.
func WithOriginPolicy(policy OriginPolicy) Option {
	return func(s *Service) { s.originPolicy = policy }
}

// WithTokenCreator overrides the handshake token creator.
func WithTokenCreator(creator *token.Creator) Option {
	return func(s *Service) { s.tokenCreator = creator }
}

// WithParentDomain overrides the announced parent domain.
func WithParentDomain(domain string) Option {
	return func(s *Service) { s.parentDomain = domain }
}

// New initializes the protocol engine and registers its inbound listener on
// the channel. Listener registration is idempotent at the channel level, so
// constructing the engine is safe regardless of how often sessions come and
// go afterwards.
func New(repos Repos, cfg config.GatewayConfig, options ...Option) (*Service, error) {
	if repos.Registry == nil {
		return nil, fmt.Errorf("[gateway.New] Registry is required")
	}
	if repos.Channel == nil {
		return nil, fmt.Errorf("[gateway.New] Channel is required")
	}

	s := &Service{
		repos:           repos,
		targets:         make(map[string]struct{}),
		parentDomain:    cfg.GetParentDomain(),
		originPolicy:    ParseOriginPolicy(cfg.GetOriginPolicy()),
		defaultLocale:   cfg.GetDefaultLocale(),
		defaultCurrency: cfg.GetDefaultCurrency(),
	}
	if key := cfg.GetSessionTokenKey(); key != "" {
		s.tokenCreator = token.NewCreator([]byte(key))
	}
	for _, target := range cfg.GetEmbedTargets() {
		if target != "" {
			s.targets[target] = struct{}{}
		}
	}

	for _, opt := range options {
		opt(s)
	}

	repos.Channel.OnInbound(s.handleInbound)

	return s, nil
}

// RegisterTarget adds an embed target id sessions may be created into.
func (s *Service) RegisterTarget(id string) {
	s.targets[id] = struct{}{}
}

// CreateSession validates the config, registers the session, resolves the
// user balance and instantiates the embedded context. Configuration errors
// fail fast without partial registry mutation; a balance resolution failure
// is recovered locally with a zero balance.
func (s *Service) CreateSession(ctx context.Context, cfg Config) error {
	endpoint, err := validateConfig(cfg)
	if err != nil {
		return err
	}
	if _, ok := s.targets[cfg.TargetID]; !ok {
		return errors.Wrapf(errors.ErrTargetNotFound, "target %q", cfg.TargetID)
	}

	locale, currency, callbackURL := cfg.Locale, cfg.Currency, cfg.CallbackURL
	if s.repos.Tenants != nil && cfg.TenantName != "" {
		tenant, err := s.repos.Tenants.GetByName(cfg.TenantName)
		if err == nil {
			if callbackURL == "" {
				callbackURL = tenant.CallbackURL
			}
			if locale == "" {
				locale = tenant.DefaultLocale
			}
			if currency == "" {
				currency = tenant.DefaultCurrency
			}
			if tenant.RequireCallbackURL && callbackURL == "" {
				return errors.Wrapf(errors.ErrInvalidConfig, "tenant %q requires a callback URL", tenant.Name)
			}
		}
	}
	if locale == "" {
		locale = s.defaultLocale
	}
	if currency == "" {
		currency = s.defaultCurrency
	}

	session := sessions.New(cfg.GameID, endpoint, sessions.Callbacks{
		OnError:      cfg.OnError,
		OnGameResult: cfg.OnGameResult,
		OnGameLoad:   cfg.OnGameLoad,
	})
	session.UserID = cfg.UserID
	session.TenantName = cfg.TenantName
	session.CallbackURL = callbackURL
	session.SetLocaleCurrency(locale, currency)

	if err := s.repos.Registry.Create(session); err != nil {
		return err
	}

	amount, err := cfg.ResolveBalance(ctx, cfg.UserID)
	if err != nil {
		log.Warn().Err(err).Str("session", session.ID).Msg("balance resolution failed, defaulting to zero")
		amount = 0
	}
	session.SetBalance(amount)

	handle, err := s.repos.Channel.Instantiate(endpoint)
	if err != nil {
		_ = s.repos.Registry.Remove(session.ID)
		return errors.Wrapf(err, "instantiate context for session %q", session.ID)
	}
	if err := s.repos.Registry.Bind(session.ID, handle); err != nil {
		s.repos.Channel.Destroy(handle)
		return err
	}
	session.TryAdvance(sessions.StateCreated, sessions.StateLoading)

	log.Info().
		Str("session", session.ID).
		Str("user", session.UserID).
		Str("endpoint", endpoint.String()).
		Msg("session created")
	return nil
}

// RemoveSession tears down a session: the embedded context is destroyed,
// the session is terminated and deregistered. A session still being created
// is treated as not found, as is a double remove.
func (s *Service) RemoveSession(id string) error {
	session, ok := s.repos.Registry.Get(id)
	if !ok {
		return errors.Wrapf(errors.ErrSessionNotFound, "session %q", id)
	}
	if session.State() == sessions.StateCreated {
		// creation still in flight; not removable yet
		return errors.Wrapf(errors.ErrSessionNotFound, "session %q not fully created", id)
	}
	if err := s.repos.Registry.Remove(id); err != nil {
		return err
	}
	if handle := session.Handle(); handle != channel.NilHandle {
		s.repos.Channel.Destroy(handle)
	}
	session.Terminate()

	log.Info().Str("session", id).Msg("session removed")
	return nil
}
