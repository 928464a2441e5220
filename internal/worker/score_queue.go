package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// ScoreQueue hands graded score records to the ScoreWorker through Redis.
type ScoreQueue struct {
	rdb *redis.Client
}

// NewScoreQueue creates a new ScoreQueue.
func NewScoreQueue(rdb *redis.Client) *ScoreQueue {
	return &ScoreQueue{rdb: rdb}
}

// Submit enqueues one score record.
func (q *ScoreQueue) Submit(ctx context.Context, rec model.ScoreRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode score: %w", err)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.PersistScoresQueue, raw).Err()
}
