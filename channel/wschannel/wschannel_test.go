package wschannel_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/channel/wschannel"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
	"github.com/jrsteele09/go-game-gateway/protocol"
)

// gameServer is a minimal embedded-context stand-in: it upgrades the
// connection, announces gameLoaded and echoes every envelope it receives
// onto the received channel.
func gameServer(t *testing.T, received chan protocol.Envelope) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		if err := conn.WriteJSON(protocol.Envelope{Action: protocol.ActionGameLoaded}); err != nil {
			return
		}
		for {
			var env protocol.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			received <- env
		}
	}))
}

func waitInbound(t *testing.T, inbound chan channel.Inbound) channel.Inbound {
	t.Helper()
	select {
	case in := <-inbound:
		return in
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for inbound message")
		return channel.Inbound{}
	}
}

func TestInstantiateSendAndReceive(t *testing.T) {
	received := make(chan protocol.Envelope, 1)
	srv := gameServer(t, received)
	defer srv.Close()

	endpoint, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ws := wschannel.New()
	inbound := make(chan channel.Inbound, 1)
	ws.OnInbound(func(in channel.Inbound) { inbound <- in })

	handle, err := ws.Instantiate(endpoint)
	require.NoError(t, err)
	require.NotEqual(t, channel.NilHandle, handle)
	defer ws.Destroy(handle)

	in := waitInbound(t, inbound)
	require.Equal(t, handle, in.Source)
	require.Equal(t, protocol.ActionGameLoaded, in.Envelope.Action)
	require.Equal(t, channel.OriginOf(endpoint), in.Origin)

	env, err := protocol.NewEnvelope(protocol.ActionSetParentDomain, "g1", protocol.SetParentDomain{Domain: "http://localhost:8080"})
	require.NoError(t, err)
	ws.Send(handle, env)

	select {
	case got := <-received:
		require.Equal(t, protocol.ActionSetParentDomain, got.Action)
		require.Equal(t, "g1", got.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server receive")
	}
}

func TestInstantiateRejectsInvalidEndpoint(t *testing.T) {
	ws := wschannel.New()

	_, err := ws.Instantiate(nil)
	require.ErrorIs(t, err, errors.ErrInvalidEndpoint)

	bad, parseErr := url.Parse("ftp://games.example.com")
	require.NoError(t, parseErr)
	_, err = ws.Instantiate(bad)
	require.ErrorIs(t, err, errors.ErrInvalidEndpoint)
}

func TestSendToDestroyedHandleIsNoOp(t *testing.T) {
	received := make(chan protocol.Envelope, 1)
	srv := gameServer(t, received)
	defer srv.Close()

	endpoint, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ws := wschannel.New()
	handle, err := ws.Instantiate(endpoint)
	require.NoError(t, err)

	ws.Destroy(handle)

	require.NotPanics(t, func() {
		ws.Send(handle, protocol.Envelope{Action: protocol.ActionSetParentDomain})
	})
}

func TestOnInboundRegistrationIsOnceOnly(t *testing.T) {
	received := make(chan protocol.Envelope, 1)
	srv := gameServer(t, received)
	defer srv.Close()

	endpoint, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ws := wschannel.New()
	first := make(chan channel.Inbound, 1)
	ws.OnInbound(func(in channel.Inbound) { first <- in })
	ws.OnInbound(func(channel.Inbound) { t.Error("second listener must never be invoked") })

	handle, err := ws.Instantiate(endpoint)
	require.NoError(t, err)
	defer ws.Destroy(handle)

	in := waitInbound(t, first)
	require.Equal(t, protocol.ActionGameLoaded, in.Envelope.Action)
}
