package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-game-gateway/gateway"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
	"github.com/jrsteele09/go-game-gateway/tenants"
)

// CreateSessionRequest is the JSON body for POST /api/sessions.
type CreateSessionRequest struct {
	GameID      string `json:"gameId"`
	TargetID    string `json:"targetId"`
	URL         string `json:"url"`
	UserID      string `json:"userId"`
	TenantName  string `json:"tenantName,omitempty"`
	CallbackURL string `json:"callbackUrl,omitempty"`
	Locale      string `json:"locale,omitempty"`
	Currency    string `json:"currency,omitempty"`
}

// CreateSessionHandler creates an embedded game session. Game events are
// delivered through the engine callbacks; at this layer they are logged,
// a library consumer would wire their own.
func (s *Server) CreateSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		cfg := gateway.Config{
			GameID:         req.GameID,
			TargetID:       req.TargetID,
			EndpointURL:    req.URL,
			UserID:         req.UserID,
			TenantName:     req.TenantName,
			CallbackURL:    req.CallbackURL,
			Locale:         req.Locale,
			Currency:       req.Currency,
			ResolveBalance: s.deps.Resolver,
			OnError: func(sessionID, message string) {
				log.Warn().Str("session", sessionID).Str("message", message).Msg("game reported error")
			},
			OnGameResult: func(sessionID string, data json.RawMessage) {
				log.Info().Str("session", sessionID).RawJSON("data", data).Msg("game result received")
			},
			OnGameLoad: func(sessionID string) {
				log.Info().Str("session", sessionID).Msg("game loaded")
			},
		}

		if err := s.deps.Engine.CreateSession(r.Context(), cfg); err != nil {
			writeEngineError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": req.GameID})
	}
}

func (s *Server) RemoveSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.deps.Engine.RemoveSession(r.PathValue("id")); err != nil {
			writeEngineError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SessionLogHandler exposes the inspector's per-session log, most recent
// first.
func (s *Server) SessionLogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Inspector == nil {
			http.Error(w, "inspection disabled", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, s.deps.Inspector.Entries(r.PathValue("id")))
	}
}

func (s *Server) UpsertTenantHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Tenants == nil {
			http.Error(w, "tenant store disabled", http.StatusNotFound)
			return
		}
		var tenant tenants.Tenant
		if err := json.NewDecoder(r.Body).Decode(&tenant); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if err := s.deps.Tenants.Upsert(&tenant); err != nil {
			http.Error(w, "tenant upsert failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, tenant)
	}
}

func (s *Server) ListTenantsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Tenants == nil {
			http.Error(w, "tenant store disabled", http.StatusNotFound)
			return
		}
		list, err := s.deps.Tenants.List(0, 100)
		if err != nil {
			http.Error(w, "tenant list failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": s.deps.Registry.Len(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errors.ErrInvalidConfig):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, errors.ErrDuplicateSession):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errors.ErrTargetNotFound), errors.Is(err, errors.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("session operation failed")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
