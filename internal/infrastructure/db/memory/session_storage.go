// Package memory provides process-local implementations of the storage ports.
// They back development runs and tests; records do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/visioncare/clinic-portal/internal/core/domain"
)

// SessionStorage keeps session records in a map.
type SessionStorage struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{records: make(map[string][]byte)}
}

func (s *SessionStorage) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.records[key]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return append([]byte(nil), data...), nil
}

func (s *SessionStorage) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = append([]byte(nil), data...)
	return nil
}

func (s *SessionStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Len reports how many records are held.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
