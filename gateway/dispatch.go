package gateway

import (
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/protocol"
	"github.com/jrsteele09/go-game-gateway/sessions"
)

// handleInbound is the single dispatch point for every message arriving
// from any embedded context. Unroutable messages and origin mismatches are
// dropped with a debug log; a hostile or stale context must never be able
// to disrupt other sessions, so nothing here is surfaced as an error and
// nothing may panic out.
func (s *Service) handleInbound(in channel.Inbound) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("action", string(in.Envelope.Action)).Msg("inbound handler panic recovered")
		}
	}()

	session, ok := s.resolveSession(in)
	if !ok {
		log.Debug().
			Str("action", string(in.Envelope.Action)).
			Str("origin", in.Origin).
			Msg("unroutable message dropped")
		return
	}
	if !s.originAllowed(session, in) {
		log.Debug().
			Str("session", session.ID).
			Str("origin", in.Origin).
			Str("expected", session.Origin()).
			Msg("origin mismatch dropped")
		return
	}

	switch in.Envelope.Action {
	case protocol.ActionGameLoaded:
		s.record(session.ID, protocol.DirectionReceived, in.Envelope.Action, nil)
		s.handleGameLoaded(session)
	case protocol.ActionGameResult:
		s.record(session.ID, protocol.DirectionReceived, in.Envelope.Action, in.Envelope.Payload)
		s.handleGameResult(session, in.Envelope)
	case protocol.ActionUpdateLocaleAndCurrency:
		s.record(session.ID, protocol.DirectionReceived, in.Envelope.Action, in.Envelope.Payload)
		s.handleLocaleUpdate(session, in.Envelope)
	case protocol.ActionError:
		s.handleGameError(session, in.Envelope)
	default:
		log.Debug().Str("action", string(in.Envelope.Action)).Str("session", session.ID).Msg("unknown action dropped")
	}
}

// resolveSession matches an inbound message to its session: by explicit
// session id when the envelope carries one, otherwise by reverse lookup of
// the sending context. An explicit id is still cross-checked against the
// sending context so one game cannot speak for another's session.
func (s *Service) resolveSession(in channel.Inbound) (*sessions.Session, bool) {
	if id := in.Envelope.SessionID; id != "" {
		session, ok := s.repos.Registry.Get(id)
		if !ok {
			return nil, false
		}
		if handle := session.Handle(); handle != channel.NilHandle && handle != in.Source {
			return nil, false
		}
		return session, true
	}
	return s.repos.Registry.FindBySource(in.Source)
}

func (s *Service) originAllowed(session *sessions.Session, in channel.Inbound) bool {
	switch s.originPolicy {
	case OriginPolicyContextIdentity:
		return in.Source != channel.NilHandle && in.Source == session.Handle()
	default:
		return in.Origin == session.Origin()
	}
}

// handleGameLoaded runs the handshake: parent domain announcement first,
// user details second, then Ready and the OnGameLoad callback exactly once.
// A late signal for a removed session, or a duplicate signal, is a no-op.
func (s *Service) handleGameLoaded(session *sessions.Session) {
	if _, ok := s.repos.Registry.Get(session.ID); !ok {
		log.Debug().Str("session", session.ID).Msg("load signal for removed session dropped")
		return
	}
	if !session.TryAdvance(sessions.StateLoading, sessions.StateReady) {
		log.Debug().Str("session", session.ID).Str("state", session.State().String()).Msg("duplicate load signal dropped")
		return
	}

	s.send(session, protocol.ActionSetParentDomain, protocol.SetParentDomain{Domain: s.parentDomain})

	details := protocol.UserDetails{
		TenantName:  session.TenantName,
		GameID:      session.ID,
		UserID:      session.UserID,
		Balance:     session.Balance(),
		CallbackURL: session.CallbackURL,
		Locale:      session.Locale(),
		Currency:    session.Currency(),
	}
	if s.tokenCreator.Enabled() {
		signed, err := s.tokenCreator.SessionToken(session.UserID, session.TenantName, session.ID, session.Balance())
		if err != nil {
			log.Warn().Err(err).Str("session", session.ID).Msg("session token signing failed, sending details unsigned")
		} else {
			details.SessionToken = signed
		}
	}
	s.send(session, protocol.ActionUserDetails, details)

	log.Info().Str("session", session.ID).Msg("handshake sent, session ready")
	session.Callbacks.OnGameLoad(session.ID)
}

func (s *Service) handleGameResult(session *sessions.Session, env protocol.Envelope) {
	var result protocol.GameResult
	if err := env.DecodePayload(&result); err != nil {
		log.Debug().Err(err).Str("session", session.ID).Msg("malformed gameResult dropped")
		return
	}
	session.TryAdvance(sessions.StateReady, sessions.StateActive)
	session.Callbacks.OnGameResult(session.ID, result.Data)
}

func (s *Service) handleLocaleUpdate(session *sessions.Session, env protocol.Envelope) {
	var update protocol.LocaleAndCurrency
	if err := env.DecodePayload(&update); err != nil {
		log.Debug().Err(err).Str("session", session.ID).Msg("malformed locale update dropped")
		return
	}
	session.UpdateLocaleCurrency(update.Locale, update.Currency)
}

// handleGameError forwards an application-level error to the host. The
// session stays usable; the host decides whether to remove it.
func (s *Service) handleGameError(session *sessions.Session, env protocol.Envelope) {
	var appErr protocol.ErrorMessage
	if err := env.DecodePayload(&appErr); err != nil {
		log.Debug().Err(err).Str("session", session.ID).Msg("malformed error message dropped")
		return
	}
	if s.repos.Inspector != nil {
		s.repos.Inspector.RecordError(session.ID, appErr.Message)
	}
	session.Callbacks.OnError(session.ID, appErr.Message)
}

// send delivers a control message to the session's context and mirrors it
// to the inspector.
func (s *Service) send(session *sessions.Session, action protocol.Action, payload any) {
	env, err := protocol.NewEnvelope(action, session.ID, payload)
	if err != nil {
		log.Error().Err(err).Str("session", session.ID).Str("action", string(action)).Msg("outbound message encoding failed")
		return
	}
	s.repos.Channel.Send(session.Handle(), env)
	s.record(session.ID, protocol.DirectionSent, action, payload)
}

func (s *Service) record(sessionID string, direction protocol.Direction, action protocol.Action, payload any) {
	if s.repos.Inspector != nil {
		s.repos.Inspector.Record(sessionID, direction, action, payload)
	}
}
