package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	ScoreBatchSize    = 50
	ScoreBatchTimeout = 2 * time.Second
	ScorePollTimeout  = 1 * time.Second
)

// ScoreStore persists score records.
type ScoreStore interface {
	InsertBatch(ctx context.Context, records []model.ScoreRecord) error
	Insert(ctx context.Context, rec model.ScoreRecord) error
}

// ScoreWorker drains the score queue into the scores table in batches.
type ScoreWorker struct {
	store ScoreStore
	rdb   *redis.Client
	log   zerolog.Logger
}

func NewScoreWorker(store ScoreStore, rdb *redis.Client, log zerolog.Logger) *ScoreWorker {
	return &ScoreWorker{
		store: store,
		rdb:   rdb,
		log:   log.With().Str("component", "score_worker").Logger(),
	}
}

// ─── Worker loop with batching ───

func (w *ScoreWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ScoreWorker started")

	batch := make([]model.ScoreRecord, 0, ScoreBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ScoreBatchSize || time.Since(lastFlush) >= ScoreBatchTimeout) {

			w.flush(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ScorePollTimeout, config.WorkerKey.PersistScoresQueue).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			rec, ok := w.decode(item[1])
			if !ok {
				continue
			}
			batch = append(batch, rec)
		}
	}
}

func (w *ScoreWorker) decode(raw string) (model.ScoreRecord, bool) {
	var rec model.ScoreRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		w.log.Error().Err(err).Msg("Invalid score payload")
		return rec, false
	}
	if rec.UserID <= 0 || rec.Total < 0 {
		w.log.Error().Int("user_id", rec.UserID).Msg("Score payload missing required fields")
		return rec, false
	}
	return rec, true
}

// ─── Batch insert with per-row fallback ───

// flush writes the batch in one statement. If that fails, rows are written
// one by one so a single bad record does not lose the others; rows that
// still fail are logged and dropped.
func (w *ScoreWorker) flush(ctx context.Context, batch []model.ScoreRecord) {
	if len(batch) == 0 {
		return
	}

	if err := w.store.InsertBatch(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("bulk score insert failed, inserting one by one")

		for _, rec := range batch {
			if err := w.store.Insert(ctx, rec); err != nil {
				w.log.Error().Err(err).
					Int("user_id", rec.UserID).
					Int("year_id", rec.YearID).
					Msg("score dropped")
			}
		}
		return
	}

	w.log.Debug().Int("size", len(batch)).Msg("scores persisted")
}
