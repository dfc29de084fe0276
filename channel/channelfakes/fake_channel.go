package channelfakes

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/protocol"
)

var _ channel.Channel = (*FakeChannel)(nil)

// FakeChannel is an in-memory channel for tests. Messages sent to a handle
// are recorded in order; inbound delivery is driven explicitly through
// Deliver.
type FakeChannel struct {
	lock sync.Mutex

	InstantiateErr error

	nextHandle   int
	instantiated map[channel.ContextHandle]*url.URL
	destroyed    map[channel.ContextHandle]bool
	sent         map[channel.ContextHandle][]protocol.Envelope

	inbound    channel.InboundFunc
	registered int
}

func NewFakeChannel() *FakeChannel {
	return &FakeChannel{
		instantiated: make(map[channel.ContextHandle]*url.URL),
		destroyed:    make(map[channel.ContextHandle]bool),
		sent:         make(map[channel.ContextHandle][]protocol.Envelope),
	}
}

func (c *FakeChannel) Instantiate(endpoint *url.URL) (channel.ContextHandle, error) {
	if err := channel.ValidateEndpoint(endpoint); err != nil {
		return channel.NilHandle, err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.InstantiateErr != nil {
		return channel.NilHandle, c.InstantiateErr
	}
	c.nextHandle++
	handle := channel.ContextHandle(fmt.Sprintf("ctx-%d", c.nextHandle))
	c.instantiated[handle] = endpoint
	return handle, nil
}

func (c *FakeChannel) Send(handle channel.ContextHandle, env protocol.Envelope) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.destroyed[handle] {
		return
	}
	c.sent[handle] = append(c.sent[handle], env)
}

func (c *FakeChannel) Destroy(handle channel.ContextHandle) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.destroyed[handle] = true
}

func (c *FakeChannel) OnInbound(fn channel.InboundFunc) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.registered++
	if c.inbound != nil {
		return
	}
	c.inbound = fn
}

// Deliver simulates an inbound message from an embedded context.
func (c *FakeChannel) Deliver(handle channel.ContextHandle, origin string, env protocol.Envelope) {
	c.lock.Lock()
	fn := c.inbound
	c.lock.Unlock()
	if fn != nil {
		fn(channel.Inbound{Source: handle, Origin: origin, Envelope: env})
	}
}

// DeliverFrom is Deliver with the origin derived from the instantiated
// endpoint, matching what a live transport reports.
func (c *FakeChannel) DeliverFrom(handle channel.ContextHandle, env protocol.Envelope) {
	c.lock.Lock()
	endpoint := c.instantiated[handle]
	fn := c.inbound
	c.lock.Unlock()
	if fn != nil {
		fn(channel.Inbound{Source: handle, Origin: channel.OriginOf(endpoint), Envelope: env})
	}
}

// SentTo returns the messages sent to a handle, in order.
func (c *FakeChannel) SentTo(handle channel.ContextHandle) []protocol.Envelope {
	c.lock.Lock()
	defer c.lock.Unlock()
	out := make([]protocol.Envelope, len(c.sent[handle]))
	copy(out, c.sent[handle])
	return out
}

// Handles returns the instantiated handles in creation order.
func (c *FakeChannel) Handles() []channel.ContextHandle {
	c.lock.Lock()
	defer c.lock.Unlock()
	handles := make([]channel.ContextHandle, 0, c.nextHandle)
	for i := 1; i <= c.nextHandle; i++ {
		handles = append(handles, channel.ContextHandle(fmt.Sprintf("ctx-%d", i)))
	}
	return handles
}

func (c *FakeChannel) Destroyed(handle channel.ContextHandle) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.destroyed[handle]
}

// Registrations reports how many times OnInbound was called; the fake only
// honours the first.
func (c *FakeChannel) Registrations() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.registered
}
