package store

import (
	"context"
	"fmt"
	"sync"

	"hirepath/internal/application/models"
	"hirepath/pkg/platform/sentinel"
)

// InMemoryStore keeps applications in a slice guarded by a RWMutex. Listings
// copy the slice under the read lock, so they see every append committed
// before the lock was taken.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []*models.Application
	byID    map[string]int
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byID: make(map[string]int)}
}

func (s *InMemoryStore) Append(_ context.Context, app *models.Application) (string, error) {
	if app == nil {
		return "", fmt.Errorf("append application: nil record")
	}
	record := app.Clone()
	if err := assignID(record); err != nil {
		return "", fmt.Errorf("generate application id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[record.ID]; exists {
		return "", fmt.Errorf("append application %s: %w", record.ID, sentinel.ErrConflict)
	}
	s.byID[record.ID] = len(s.records)
	s.records = append(s.records, record)
	return record.ID, nil
}

func (s *InMemoryStore) Get(_ context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.records[idx].Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Application, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}
