// Package progress persists a learner's per-topic stage completion. The
// scheduler consumes the resolved booleans; how they got here is this
// package's business.
package progress

import (
	"context"
	"sync"
	"time"
)

// Record holds a learner's stage completion for one topic.
type Record struct {
	Topic             string    `json:"topic"`
	CoachingCompleted bool      `json:"coaching_completed"`
	PracticeCompleted bool      `json:"practice_completed"`
	ExamCompleted     bool      `json:"exam_completed"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// Store persists progress records keyed by user, subject and topic.
type Store interface {
	List(ctx context.Context, userID, subjectKey string) ([]Record, error)
	Upsert(ctx context.Context, userID, subjectKey string, rec Record) error
}

// MemoryStore is an in-memory Store, used in tests and as the fallback when
// no database is configured.
type MemoryStore struct {
	records map[string]map[string]Record // user:subject -> topic -> record
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory progress store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]Record),
	}
}

func (s *MemoryStore) List(_ context.Context, userID, subjectKey string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTopic := s.records[storeKey(userID, subjectKey)]
	records := make([]Record, 0, len(byTopic))
	for _, rec := range byTopic {
		records = append(records, rec)
	}
	return records, nil
}

func (s *MemoryStore) Upsert(_ context.Context, userID, subjectKey string, rec Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := storeKey(userID, subjectKey)
	if s.records[key] == nil {
		s.records[key] = make(map[string]Record)
	}
	s.records[key][rec.Topic] = rec
	return nil
}

func storeKey(userID, subjectKey string) string {
	return userID + ":" + subjectKey
}
