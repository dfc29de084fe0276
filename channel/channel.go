// Package channel abstracts the cross-context transport between the gateway
// and embedded game contexts: creating a context bound to a URL, sending it
// typed messages, and receiving inbound messages tagged with their source.
//
// The channel performs no origin filtering; the valid origin is session
// specific, so enforcement belongs to the caller.
package channel

import (
	"net/url"

	"github.com/jrsteele09/go-game-gateway/internal/errors"
	"github.com/jrsteele09/go-game-gateway/protocol"
)

// ContextHandle is an opaque reference to one embedded execution context.
// Handles are owned by the channel; other components may hold them only for
// send targeting and reverse lookup.
type ContextHandle string

// NilHandle is the zero handle, held by sessions whose context has not been
// instantiated yet.
const NilHandle ContextHandle = ""

// Inbound is a message received from an embedded context.
type Inbound struct {
	Source   ContextHandle
	Origin   string
	Envelope protocol.Envelope
}

// InboundFunc receives every inbound message from any embedded context.
type InboundFunc func(Inbound)

// Channel is the transport contract consumed by the protocol engine.
type Channel interface {
	// Instantiate creates an embedded context bound to the endpoint URL.
	// Returns errors.ErrInvalidEndpoint for absent, relative or
	// unsupported-scheme URLs.
	Instantiate(endpoint *url.URL) (ContextHandle, error)

	// Send delivers a message to a context, best effort. It silently no-ops
	// if the handle has already been torn down.
	Send(handle ContextHandle, env protocol.Envelope)

	// Destroy tears down a context. Destroying an unknown handle is a no-op.
	Destroy(handle ContextHandle)

	// OnInbound registers the single process-wide inbound listener. The
	// registration is once-only: subsequent calls are ignored, so repeated
	// session creation can never accumulate duplicate listeners.
	OnInbound(fn InboundFunc)
}

// ValidateEndpoint checks that the URL is an absolute ws(s)/http(s) address.
func ValidateEndpoint(endpoint *url.URL) error {
	if endpoint == nil || !endpoint.IsAbs() || endpoint.Host == "" {
		return errors.ErrInvalidEndpoint
	}
	switch endpoint.Scheme {
	case "ws", "wss", "http", "https":
		return nil
	}
	return errors.Wrapf(errors.ErrInvalidEndpoint, "scheme %q", endpoint.Scheme)
}

// OriginOf derives the origin identity (scheme://host) of an endpoint.
// Websocket schemes map onto their HTTP equivalents so that an origin
// reported by a live connection compares equal to one derived from the
// configured endpoint.
func OriginOf(endpoint *url.URL) string {
	if endpoint == nil {
		return ""
	}
	scheme := endpoint.Scheme
	switch scheme {
	case "ws":
		scheme = "http"
	case "wss":
		scheme = "https"
	}
	return scheme + "://" + endpoint.Host
}
