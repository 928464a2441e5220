package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// MissedRepository keeps each user's latest missed-question set in Redis.
type MissedRepository struct {
	rdb *redis.Client
}

// NewMissedRepository creates a new MissedRepository.
func NewMissedRepository(rdb *redis.Client) *MissedRepository {
	return &MissedRepository{rdb: rdb}
}

// Load returns the stored set, or nil when the user has none.
func (r *MissedRepository) Load(ctx context.Context, userID int) ([]model.Question, error) {
	raw, err := r.rdb.Get(ctx, config.CacheKey.UserMissedQuestionsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var questions []model.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode missed set: %w", err)
	}
	return questions, nil
}

// Store replaces the set. An empty set deletes the key.
func (r *MissedRepository) Store(ctx context.Context, userID int, questions []model.Question) error {
	if len(questions) == 0 {
		return r.Clear(ctx, userID)
	}
	raw, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("encode missed set: %w", err)
	}
	return r.rdb.Set(ctx, config.CacheKey.UserMissedQuestionsKey(userID), raw, 0).Err()
}

// Clear deletes the set.
func (r *MissedRepository) Clear(ctx context.Context, userID int) error {
	return r.rdb.Del(ctx, config.CacheKey.UserMissedQuestionsKey(userID)).Err()
}
