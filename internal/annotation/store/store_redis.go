package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"varhub/internal/annotation/models"
)

const (
	// Redis key prefixes for the two cache concerns
	studyKeyPrefix  = "annot:study:"
	resultKeyPrefix = "annot:result:"
)

// RedisStore is a Redis-backed cache shared across instances.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed store. ttl applies to aggregation
// results; study metadata is kept for 24h since it effectively never changes.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

const studyTTL = 24 * time.Hour

// FindCancerType returns the cached cancer type name for a study, or ""
// when absent.
func (s *RedisStore) FindCancerType(ctx context.Context, studyID string) (string, error) {
	val, err := s.client.Get(ctx, studyKeyPrefix+studyID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SaveCancerType caches a study's cancer type name.
func (s *RedisStore) SaveCancerType(ctx context.Context, studyID, cancerType string) error {
	return s.client.Set(ctx, studyKeyPrefix+studyID, cancerType, studyTTL).Err()
}

// Find returns a cached aggregation result, or nil when absent.
func (s *RedisStore) Find(ctx context.Context, key string) (*models.EnhancedAnnotation, error) {
	raw, err := s.client.Get(ctx, resultKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var annotation models.EnhancedAnnotation
	if err := json.Unmarshal(raw, &annotation); err != nil {
		return nil, err
	}
	return &annotation, nil
}

// Save caches a completed aggregation result with the configured TTL.
func (s *RedisStore) Save(ctx context.Context, key string, annotation *models.EnhancedAnnotation) error {
	raw, err := json.Marshal(annotation)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, resultKeyPrefix+key, raw, s.ttl).Err()
}
