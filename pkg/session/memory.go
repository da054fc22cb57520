package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory; they never expire.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[int64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[int64]Session)}
}

func (m *MemoryStore) Get(_ context.Context, chatID int64) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[chatID]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	s.UpdatedAt = time.Now().UTC()
	m.mu.Lock()
	m.data[s.ChatID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	delete(m.data, chatID)
	m.mu.Unlock()
	return nil
}
