package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidyamithra/backend/internal/domain/quiz"
)

// redisAnswerKeyStore holds generated quiz answer keys so grading can use a
// server-held key instead of trusting client-echoed correctness markers.
// Keys expire: an abandoned quiz should not live forever.
type redisAnswerKeyStore struct {
	rdb *redis.Client
}

func NewRedisAnswerKeyStore(rdb *redis.Client) quiz.KeyStore {
	return &redisAnswerKeyStore{rdb: rdb}
}

func answerKeyKey(quizID string) string {
	return "quiz:answer-key:" + quizID
}

func (s *redisAnswerKeyStore) Put(ctx context.Context, quizID string, key map[int]int, ttl time.Duration) error {
	raw, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to marshal answer key: %w", err)
	}
	if err := s.rdb.Set(ctx, answerKeyKey(quizID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store answer key: %w", err)
	}
	return nil
}

func (s *redisAnswerKeyStore) Get(ctx context.Context, quizID string) (map[int]int, error) {
	raw, err := s.rdb.Get(ctx, answerKeyKey(quizID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load answer key: %w", err)
	}

	var key map[int]int
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answer key: %w", err)
	}
	return key, nil
}
