package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-game-gateway/balance"
	"github.com/jrsteele09/go-game-gateway/channel/channelfakes"
	"github.com/jrsteele09/go-game-gateway/gateway"
	"github.com/jrsteele09/go-game-gateway/inspector"
	"github.com/jrsteele09/go-game-gateway/internal/config"
	"github.com/jrsteele09/go-game-gateway/protocol"
	"github.com/jrsteele09/go-game-gateway/server"
	"github.com/jrsteele09/go-game-gateway/sessions"
	tenantrepofakes "github.com/jrsteele09/go-game-gateway/tenants/repofakes"
)

type serverFixture struct {
	server   *server.Server
	channel  *channelfakes.FakeChannel
	registry *sessions.Registry
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	registry := sessions.NewRegistry()
	ch := channelfakes.NewFakeChannel()
	insp := inspector.NewBoundedLog(10)
	tenantRepo := tenantrepofakes.NewFakeTenantRepo()

	engine, err := gateway.New(gateway.Repos{
		Registry:  registry,
		Channel:   ch,
		Tenants:   tenantRepo,
		Inspector: insp,
	}, config.Gateway{})
	require.NoError(t, err)

	srv, err := server.NewWithDeps(config.New(), server.Deps{
		Engine:    engine,
		Registry:  registry,
		Inspector: insp,
		Tenants:   tenantRepo,
		Resolver:  balance.Fixed(50),
	})
	require.NoError(t, err)

	return &serverFixture{server: srv, channel: ch, registry: registry}
}

func (fx *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	fx.server.ServeHTTP(rec, req)
	return rec
}

func validCreateRequest(id string) server.CreateSessionRequest {
	return server.CreateSessionRequest{
		GameID:   id,
		TargetID: "main",
		URL:      "wss://games.example.com/slots",
		UserID:   "user-1",
	}
}

func TestCreateSessionEndpoint(t *testing.T) {
	fx := setupServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/sessions", validCreateRequest("g1"))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, fx.registry.Len())

	session, ok := fx.registry.Get("g1")
	require.True(t, ok)
	require.Equal(t, 50.0, session.Balance())
}

func TestCreateSessionRejectsBadConfig(t *testing.T) {
	fx := setupServerFixture(t)

	req := validCreateRequest("g1")
	req.URL = "not a url"
	rec := fx.do(t, http.MethodPost, "/api/sessions", req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 0, fx.registry.Len())
}

func TestCreateSessionDuplicateConflicts(t *testing.T) {
	fx := setupServerFixture(t)

	require.Equal(t, http.StatusCreated, fx.do(t, http.MethodPost, "/api/sessions", validCreateRequest("g1")).Code)
	require.Equal(t, http.StatusConflict, fx.do(t, http.MethodPost, "/api/sessions", validCreateRequest("g1")).Code)
}

func TestRemoveSessionEndpoint(t *testing.T) {
	fx := setupServerFixture(t)
	fx.do(t, http.MethodPost, "/api/sessions", validCreateRequest("g1"))

	require.Equal(t, http.StatusNoContent, fx.do(t, http.MethodDelete, "/api/sessions/g1", nil).Code)
	require.Equal(t, http.StatusNotFound, fx.do(t, http.MethodDelete, "/api/sessions/g1", nil).Code)
}

func TestSessionLogEndpoint(t *testing.T) {
	fx := setupServerFixture(t)
	fx.do(t, http.MethodPost, "/api/sessions", validCreateRequest("g1"))

	session, ok := fx.registry.Get("g1")
	require.True(t, ok)
	fx.channel.DeliverFrom(session.Handle(), protocol.Envelope{Action: protocol.ActionGameLoaded})

	rec := fx.do(t, http.MethodGet, "/api/sessions/g1/log", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []inspector.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3) // handshake pair sent plus the received load signal
	require.Equal(t, protocol.ActionUserDetails, entries[0].Action)
}

func TestHealthEndpoint(t *testing.T) {
	fx := setupServerFixture(t)

	rec := fx.do(t, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
}

func TestAPIKeyGuardsMutatingRoutes(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	require.NoError(t, err)
	t.Setenv("ADMIN_API_KEY_HASH", string(hash))

	fx := setupServerFixture(t)

	rec := fx.do(t, http.MethodPost, "/api/sessions", validCreateRequest("g1"))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	raw, err := json.Marshal(validCreateRequest("g1"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(raw))
	req.Header.Set("X-API-Key", "secret-key")
	auth := httptest.NewRecorder()
	fx.server.ServeHTTP(auth, req)
	require.Equal(t, http.StatusCreated, auth.Code)
}
