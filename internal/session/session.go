// Package session holds per-user conversation state for the DM router.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by stores when no session exists for an id.
var ErrNotFound = errors.New("session: not found")

// Session is what the router knows about one Instagram user.
type Session struct {
	// ID is the Instagram-scoped user id (IGSID) of the sender.
	ID   string `json:"id"`
	Name string `json:"name"`
	// ConversationID keys the user's state in the Dialog Manager API. It is
	// assigned on the first start trigger and rotated on every restart.
	ConversationID string    `json:"conversation_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// New returns a fresh session for the given user.
func New(id, name string) *Session {
	now := time.Now().UTC()
	return &Session{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
}

// StartConversation assigns a fresh conversation id and returns it.
func (s *Session) StartConversation() string {
	s.ConversationID = uuid.NewString()
	return s.ConversationID
}

// Store persists sessions between webhook deliveries.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session: id required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UpdatedAt = time.Now().UTC()
	m.sessions[s.ID] = *s
	return nil
}
