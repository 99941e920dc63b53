package session

import (
	"context"
	"sync"
)

// DefaultCapacity bounds the in-memory store when no capacity is configured.
const DefaultCapacity = 500

// Store persists sessions between conversation turns. Implementations must
// treat a missing session as (nil, nil), not an error, so the agent can
// create one lazily.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a capacity-bounded in-memory store. When full, the oldest
// session (by insertion order) is evicted to make room.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	sessions map[string]*Session
	order    []string
}

// NewMemoryStore creates a store holding at most capacity sessions.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		capacity: capacity,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for the conversation, or nil when none exists.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id], nil
}

// Put stores the session, evicting the oldest one when at capacity.
func (m *MemoryStore) Put(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists {
		if len(m.sessions) >= m.capacity {
			oldest := m.order[0]
			m.order = m.order[1:]
			delete(m.sessions, oldest)
		}
		m.order = append(m.order, s.ID)
	}
	m.sessions[s.ID] = s

	return nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return nil
	}
	delete(m.sessions, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
