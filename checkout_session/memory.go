package checkout_session

import (
	"context"
	"sync"
)

type MemoryProvider struct {
	mu       sync.RWMutex
	sessions map[string]map[Key][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{sessions: make(map[string]map[Key][]byte)}
}

func (p *MemoryProvider) Open(sessionID string) Store {
	return &memoryStore{provider: p, sessionID: sessionID}
}

// NewMemoryStore returns a standalone store for a single session.
func NewMemoryStore() Store {
	return NewMemoryProvider().Open("")
}

type memoryStore struct {
	provider  *MemoryProvider
	sessionID string
}

func (s *memoryStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	s.provider.mu.RLock()
	defer s.provider.mu.RUnlock()

	value, ok := s.provider.sessions[s.sessionID][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *memoryStore) Set(ctx context.Context, key Key, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	s.provider.mu.Lock()
	defer s.provider.mu.Unlock()

	session, ok := s.provider.sessions[s.sessionID]
	if !ok {
		session = make(map[Key][]byte)
		s.provider.sessions[s.sessionID] = session
	}
	session[key] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkKey(key); err != nil {
		return err
	}

	s.provider.mu.Lock()
	defer s.provider.mu.Unlock()

	delete(s.provider.sessions[s.sessionID], key)
	return nil
}

func (s *memoryStore) ClearAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.provider.mu.Lock()
	defer s.provider.mu.Unlock()

	delete(s.provider.sessions, s.sessionID)
	return nil
}
