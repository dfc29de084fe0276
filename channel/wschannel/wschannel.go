// Package wschannel implements the transport channel over outbound
// websocket connections: instantiating an embedded context dials the game
// provider's endpoint, and each connection runs a read pump feeding the
// single inbound listener.
package wschannel

import (
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
	"github.com/jrsteele09/go-game-gateway/protocol"
)

const defaultDialTimeout = 10 * time.Second

// wsContext owns one live connection. Writes are serialised per connection;
// gorilla conns do not support concurrent writers.
type wsContext struct {
	conn    *websocket.Conn
	origin  string
	writeMu sync.Mutex
}

// WSChannel implements channel.Channel over gorilla/websocket.
type WSChannel struct {
	dialer *websocket.Dialer

	mu       sync.RWMutex
	contexts map[channel.ContextHandle]*wsContext

	inboundOnce sync.Once
	inbound     channel.InboundFunc
}

type Option func(*WSChannel)

// WithDialer overrides the websocket dialer (primarily for testing).
func WithDialer(d *websocket.Dialer) Option {
	return func(c *WSChannel) { c.dialer = d }
}

func New(options ...Option) *WSChannel {
	c := &WSChannel{
		dialer: &websocket.Dialer{
			Proxy:            websocket.DefaultDialer.Proxy,
			HandshakeTimeout: defaultDialTimeout,
		},
		contexts: make(map[channel.ContextHandle]*wsContext),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

var _ channel.Channel = (*WSChannel)(nil)

// Instantiate dials the endpoint and starts the read pump. http(s) schemes
// are rewritten to their websocket equivalents before dialling.
func (c *WSChannel) Instantiate(endpoint *url.URL) (channel.ContextHandle, error) {
	if err := channel.ValidateEndpoint(endpoint); err != nil {
		return channel.NilHandle, err
	}

	dialURL := *endpoint
	switch dialURL.Scheme {
	case "http":
		dialURL.Scheme = "ws"
	case "https":
		dialURL.Scheme = "wss"
	}

	conn, _, err := c.dialer.Dial(dialURL.String(), nil)
	if err != nil {
		return channel.NilHandle, errors.Wrapf(err, "dial %s", dialURL.String())
	}

	handle := channel.ContextHandle(uuid.New().String())
	ctx := &wsContext{conn: conn, origin: channel.OriginOf(endpoint)}

	c.mu.Lock()
	c.contexts[handle] = ctx
	c.mu.Unlock()

	go c.readPump(handle, ctx)

	log.Debug().Str("handle", string(handle)).Str("endpoint", endpoint.String()).Msg("embedded context instantiated")
	return handle, nil
}

// Send writes a message to a context, best effort. A torn-down handle is a
// silent no-op; a write failure tears the context down.
func (c *WSChannel) Send(handle channel.ContextHandle, env protocol.Envelope) {
	c.mu.RLock()
	ctx, ok := c.contexts[handle]
	c.mu.RUnlock()
	if !ok {
		log.Debug().Str("handle", string(handle)).Str("action", string(env.Action)).Msg("send to torn-down context dropped")
		return
	}

	ctx.writeMu.Lock()
	err := ctx.conn.WriteJSON(env)
	ctx.writeMu.Unlock()
	if err != nil {
		log.Debug().Err(err).Str("handle", string(handle)).Msg("context write failed")
		c.Destroy(handle)
	}
}

// Destroy tears down a context and closes its connection.
func (c *WSChannel) Destroy(handle channel.ContextHandle) {
	c.mu.Lock()
	ctx, ok := c.contexts[handle]
	if ok {
		delete(c.contexts, handle)
	}
	c.mu.Unlock()
	if ok {
		_ = ctx.conn.Close()
	}
}

// OnInbound registers the process-wide listener. Registration is once-only;
// later calls are ignored so repeated engine construction cannot leak
// duplicate listeners.
func (c *WSChannel) OnInbound(fn channel.InboundFunc) {
	c.inboundOnce.Do(func() {
		c.mu.Lock()
		c.inbound = fn
		c.mu.Unlock()
	})
}

func (c *WSChannel) readPump(handle channel.ContextHandle, ctx *wsContext) {
	defer c.Destroy(handle)

	for {
		var env protocol.Envelope
		if err := ctx.conn.ReadJSON(&env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("handle", string(handle)).Msg("context connection closed")
			}
			return
		}

		c.mu.RLock()
		fn := c.inbound
		c.mu.RUnlock()
		if fn == nil {
			log.Debug().Str("action", string(env.Action)).Msg("inbound message before listener registration dropped")
			continue
		}
		fn(channel.Inbound{Source: handle, Origin: ctx.origin, Envelope: env})
	}
}
