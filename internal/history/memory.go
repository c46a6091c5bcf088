package history

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/bionic-mail/backend/internal/models"
)

// MemoryStore is an in-memory Store for tests and deployments without a
// database. Records are stored by value so later mutation by callers cannot
// reach into the log.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.EmailRecord
	byID    map[uuid.UUID]int
}

// NewMemoryStore creates an empty in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[uuid.UUID]int)}
}

// Append adds a record. Appending a message ID twice is an error.
func (s *MemoryStore) Append(_ context.Context, record *models.EmailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[record.MessageID]; exists {
		return ErrDuplicateID
	}
	s.byID[record.MessageID] = len(s.records)
	s.records = append(s.records, *record)
	return nil
}

// List returns up to limit records, newest first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*models.EmailRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest insertion first, then a stable sort by created_at keeps
	// insertion order as the tie-break.
	out := make([]*models.EmailRecord, 0, len(s.records))
	for i := len(s.records) - 1; i >= 0; i-- {
		rec := s.records[i]
		out = append(out, &rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Get returns the record for the message ID, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, messageID uuid.UUID) (*models.EmailRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[messageID]
	if !ok {
		return nil, ErrNotFound
	}
	rec := s.records[idx]
	return &rec, nil
}
