package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreStore struct {
	batchErr error
	failUser int
	batches  [][]model.ScoreRecord
	singles  []model.ScoreRecord
}

func (f *fakeScoreStore) InsertBatch(_ context.Context, records []model.ScoreRecord) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, append([]model.ScoreRecord(nil), records...))
	return nil
}

func (f *fakeScoreStore) Insert(_ context.Context, rec model.ScoreRecord) error {
	if rec.UserID == f.failUser {
		return errors.New("constraint violation")
	}
	f.singles = append(f.singles, rec)
	return nil
}

func records(users ...int) []model.ScoreRecord {
	out := make([]model.ScoreRecord, 0, len(users))
	for _, u := range users {
		out = append(out, model.ScoreRecord{UserID: u, YearID: 201601, Score: 40, Total: 60, GradedAt: time.Now()})
	}
	return out
}

func TestScoreWorker_FlushBatch(t *testing.T) {
	store := &fakeScoreStore{}
	w := NewScoreWorker(store, nil, zerolog.Nop())

	w.flush(context.Background(), records(1, 2, 3))

	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 3)
	assert.Empty(t, store.singles)
}

func TestScoreWorker_FlushFallsBackPerRow(t *testing.T) {
	store := &fakeScoreStore{batchErr: errors.New("batch failed"), failUser: 2}
	w := NewScoreWorker(store, nil, zerolog.Nop())

	w.flush(context.Background(), records(1, 2, 3))

	require.Len(t, store.singles, 2)
	assert.Equal(t, 1, store.singles[0].UserID)
	assert.Equal(t, 3, store.singles[1].UserID)
}

func TestScoreWorker_FlushEmpty(t *testing.T) {
	store := &fakeScoreStore{}
	w := NewScoreWorker(store, nil, zerolog.Nop())

	w.flush(context.Background(), nil)

	assert.Empty(t, store.batches)
}

func TestScoreWorker_Decode(t *testing.T) {
	w := NewScoreWorker(&fakeScoreStore{}, nil, zerolog.Nop())

	rec, ok := w.decode(`{"user_id":7,"year_id":201602,"score":50,"total":60,"percent":83.3,"pass":true}`)
	require.True(t, ok)
	assert.Equal(t, 7, rec.UserID)
	assert.True(t, rec.Pass)

	_, ok = w.decode(`{not json`)
	assert.False(t, ok)

	_, ok = w.decode(`{"year_id":201602}`)
	assert.False(t, ok, "records without a user are rejected")
}
