package sessions

import (
	"sync"

	"github.com/jrsteele09/go-game-gateway/channel"
	"github.com/jrsteele09/go-game-gateway/internal/errors"
)

// Registry owns the sessionID -> Session mapping plus the reverse index from
// context handle to session, used to route inbound messages whose sender is
// identified only by its originating context. All operations are map
// mutations only; lifecycle side effects belong to the protocol engine.
type Registry struct {
	mu       sync.RWMutex
	byID     map[string]*Session
	bySource map[channel.ContextHandle]string
}

func NewRegistry() *Registry {
	return &Registry{
		byID:     make(map[string]*Session),
		bySource: make(map[channel.ContextHandle]string),
	}
}

// Create registers a session. A duplicate id fails without mutating the
// registry.
func (r *Registry) Create(session *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[session.ID]; exists {
		return errors.Wrapf(errors.ErrDuplicateSession, "session %q", session.ID)
	}
	r.byID[session.ID] = session
	return nil
}

// Bind records the reverse mapping from an instantiated context handle to
// its session. Until a session is bound it cannot be resolved by source.
func (r *Registry) Bind(id string, handle channel.ContextHandle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.byID[id]
	if !ok {
		return errors.Wrapf(errors.ErrSessionNotFound, "bind %q", id)
	}
	session.BindHandle(handle)
	r.bySource[handle] = id
	return nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.byID[id]
	return session, ok
}

// FindBySource resolves the session bound to a context handle.
func (r *Registry) FindBySource(handle channel.ContextHandle) (*Session, bool) {
	if handle == channel.NilHandle {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySource[handle]
	if !ok {
		return nil, false
	}
	session, ok := r.byID[id]
	return session, ok
}

// Remove deregisters a session and its reverse mapping.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.byID[id]
	if !ok {
		return errors.Wrapf(errors.ErrSessionNotFound, "remove %q", id)
	}
	delete(r.byID, id)
	if handle := session.Handle(); handle != channel.NilHandle {
		delete(r.bySource, handle)
	}
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
