package sessions_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
	"github.com/jrsteele09/go-game-gateway/sessions"
)

func newSession(t *testing.T, id string) *sessions.Session {
	t.Helper()
	endpoint, err := url.Parse("wss://games.example.com/slots")
	require.NoError(t, err)
	return sessions.New(id, endpoint, sessions.Callbacks{})
}

func TestRegistryCreateAndGet(t *testing.T) {
	registry := sessions.NewRegistry()
	require.NoError(t, registry.Create(newSession(t, "g1")))

	session, ok := registry.Get("g1")
	require.True(t, ok)
	require.Equal(t, "g1", session.ID)
	require.Equal(t, 1, registry.Len())
}

func TestRegistryDuplicateCreateLeavesRegistryUntouched(t *testing.T) {
	registry := sessions.NewRegistry()
	first := newSession(t, "g1")
	require.NoError(t, registry.Create(first))

	err := registry.Create(newSession(t, "g1"))
	require.ErrorIs(t, err, errors.ErrDuplicateSession)

	session, ok := registry.Get("g1")
	require.True(t, ok)
	require.Same(t, first, session)
}

func TestRegistryRemove(t *testing.T) {
	registry := sessions.NewRegistry()
	require.NoError(t, registry.Create(newSession(t, "g1")))
	require.NoError(t, registry.Remove("g1"))
	require.Equal(t, 0, registry.Len())

	require.ErrorIs(t, registry.Remove("g1"), errors.ErrSessionNotFound)
}

func TestRegistryFindBySource(t *testing.T) {
	registry := sessions.NewRegistry()
	session := newSession(t, "g1")
	require.NoError(t, registry.Create(session))

	_, ok := registry.FindBySource("ctx-1")
	require.False(t, ok)

	require.NoError(t, registry.Bind("g1", "ctx-1"))
	found, ok := registry.FindBySource("ctx-1")
	require.True(t, ok)
	require.Same(t, session, found)
	require.Equal(t, channel.ContextHandle("ctx-1"), session.Handle())

	// reverse mapping removed with the session
	require.NoError(t, registry.Remove("g1"))
	_, ok = registry.FindBySource("ctx-1")
	require.False(t, ok)
}

func TestRegistryBindUnknownSession(t *testing.T) {
	registry := sessions.NewRegistry()
	require.ErrorIs(t, registry.Bind("missing", "ctx-1"), errors.ErrSessionNotFound)
}

func TestRegistryNilHandleNeverResolves(t *testing.T) {
	registry := sessions.NewRegistry()
	require.NoError(t, registry.Create(newSession(t, "g1")))

	_, ok := registry.FindBySource(channel.NilHandle)
	require.False(t, ok)
}
