package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions are stored as
// encoded JSON so callers never share mutable state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	raw, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, ErrExpired
	}
	return &sess, nil
}

func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sess.ID] = raw
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, raw := range s.data {
		var sess Session
		if err := json.Unmarshal(raw, &sess); err != nil || sess.IsExpired() {
			delete(s.data, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ Store = (*MemoryStore)(nil)
