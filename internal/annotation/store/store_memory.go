// Package store provides the caches backing the annotation service: study
// metadata lookups and completed aggregation results. Both come in an
// in-process flavor for single-instance deployments and a Redis flavor for
// shared state.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"varhub/internal/annotation/models"
)

type memoryEntry struct {
	value     any
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process TTL cache. Expired entries are evicted
// lazily on read.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

// NewMemoryStore creates a memory store. ttl zero means entries never
// expire; study metadata effectively never changes so that is a reasonable
// setting for the study cache.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if entry.expired(time.Now()) {
		delete(s.entries, key)
		return nil, false
	}
	return entry.value, true
}

func (s *MemoryStore) set(key string, value any) {
	var expires time.Time
	if s.ttl > 0 {
		expires = time.Now().Add(s.ttl)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{value: value, expiresAt: expires}
}

// FindCancerType returns the cached cancer type name for a study, or ""
// when unknown.
func (s *MemoryStore) FindCancerType(_ context.Context, studyID string) (string, error) {
	if v, ok := s.get(studyKeyPrefix + studyID); ok {
		return v.(string), nil
	}
	return "", nil
}

// SaveCancerType caches a study's cancer type name.
func (s *MemoryStore) SaveCancerType(_ context.Context, studyID, cancerType string) error {
	s.set(studyKeyPrefix+studyID, cancerType)
	return nil
}

// Find returns a cached aggregation result, or nil when absent. Results are
// stored in their JSON form, same as the Redis store, so every caller gets
// a private copy.
func (s *MemoryStore) Find(_ context.Context, key string) (*models.EnhancedAnnotation, error) {
	v, ok := s.get(resultKeyPrefix + key)
	if !ok {
		return nil, nil
	}
	var annotation models.EnhancedAnnotation
	if err := json.Unmarshal(v.([]byte), &annotation); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// Save caches a completed aggregation result.
func (s *MemoryStore) Save(_ context.Context, key string, annotation *models.EnhancedAnnotation) error {
	payload, err := json.Marshal(annotation)
	if err != nil {
		return err
	}
	s.set(resultKeyPrefix+key, payload)
	return nil
}
