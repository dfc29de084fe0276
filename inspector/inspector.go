// Package inspector is a passive tap over protocol traffic: every message
// transition can be recorded for debugging without ever influencing protocol
// decisions. The engine works identically with a nil hook.
package inspector

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-game-gateway/protocol"
)

// Hook receives every protocol event. Implementations must not block.
type Hook interface {
	Record(sessionID string, direction protocol.Direction, action protocol.Action, payload any)
	RecordError(sessionID, message string)
}

// Entry is one observed protocol event.
type Entry struct {
	Time      time.Time          `json:"time"`
	Direction protocol.Direction `json:"direction"`
	Action    protocol.Action    `json:"action"`
	Payload   any                `json:"payload,omitempty"`
	Message   string             `json:"message,omitempty"`
}

const defaultCapacity = 50

// BoundedLog keeps a most-recent-first per-session log capped at a fixed
// length.
type BoundedLog struct {
	mu       sync.RWMutex
	capacity int
	entries  map[string][]Entry
}

var _ Hook = (*BoundedLog)(nil)

func NewBoundedLog(capacity int) *BoundedLog {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &BoundedLog{
		capacity: capacity,
		entries:  make(map[string][]Entry),
	}
}

func (l *BoundedLog) Record(sessionID string, direction protocol.Direction, action protocol.Action, payload any) {
	l.prepend(sessionID, Entry{
		Time:      time.Now(),
		Direction: direction,
		Action:    action,
		Payload:   payload,
	})
}

func (l *BoundedLog) RecordError(sessionID, message string) {
	l.prepend(sessionID, Entry{
		Time:      time.Now(),
		Direction: protocol.DirectionReceived,
		Action:    protocol.ActionError,
		Message:   message,
	})
}

func (l *BoundedLog) prepend(sessionID string, entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	log := append([]Entry{entry}, l.entries[sessionID]...)
	if len(log) > l.capacity {
		log = log[:l.capacity]
	}
	l.entries[sessionID] = log
}

// Entries returns a copy of the session's log, most recent first.
func (l *BoundedLog) Entries(sessionID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries[sessionID]))
	copy(out, l.entries[sessionID])
	return out
}

// Drop discards the log for a session.
func (l *BoundedLog) Drop(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, sessionID)
}
