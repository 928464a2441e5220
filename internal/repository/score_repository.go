package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/quiz"
)

// ScoreRepository handles score data access.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// InsertBatch writes many score records in one statement using UNNEST.
func (r *ScoreRepository) InsertBatch(ctx context.Context, records []model.ScoreRecord) error {
	n := len(records)
	if n == 0 {
		return nil
	}

	users := make([]int, 0, n)
	years := make([]int, 0, n)
	scores := make([]int, 0, n)
	totals := make([]int, 0, n)
	percents := make([]float64, 0, n)
	categories := make([]string, 0, n)
	passes := make([]bool, 0, n)
	gradedAts := make([]time.Time, 0, n)

	for _, rec := range records {
		cats, err := encodeCategories(rec.Categories)
		if err != nil {
			return err
		}
		users = append(users, rec.UserID)
		years = append(years, rec.YearID)
		scores = append(scores, rec.Score)
		totals = append(totals, rec.Total)
		percents = append(percents, rec.Percent)
		categories = append(categories, cats)
		passes = append(passes, rec.Pass)
		gradedAts = append(gradedAts, rec.GradedAt)
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO scores (user_id, year_id, score, total, percent, categories, pass, graded_at)
		SELECT u.user_id, u.year_id, u.score, u.total, u.percent, u.categories::jsonb, u.pass, u.graded_at
		FROM UNNEST(
			$1::int[],
			$2::int[],
			$3::int[],
			$4::int[],
			$5::float8[],
			$6::text[],
			$7::bool[],
			$8::timestamptz[]
		) AS u (user_id, year_id, score, total, percent, categories, pass, graded_at)`,
		users, years, scores, totals, percents, categories, passes, gradedAts,
	)
	return err
}

// Insert writes a single score record.
func (r *ScoreRepository) Insert(ctx context.Context, rec model.ScoreRecord) error {
	cats, err := encodeCategories(rec.Categories)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO scores (user_id, year_id, score, total, percent, categories, pass, graded_at)
		 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)`,
		rec.UserID, rec.YearID, rec.Score, rec.Total, rec.Percent, cats, rec.Pass, rec.GradedAt,
	)
	return err
}

// ListByUser returns a user's most recent scores, newest first. A nil
// yearID lists every year.
func (r *ScoreRepository) ListByUser(ctx context.Context, userID int, yearID *int, limit int) ([]model.ScoreHistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, year_id, score, total, percent, categories, pass, created_at
		 FROM scores
		 WHERE user_id = $1 AND ($2::int IS NULL OR year_id = $2)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $3`, userID, yearID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ScoreHistoryEntry
	for rows.Next() {
		var e model.ScoreHistoryEntry
		var cats []byte
		if err := rows.Scan(&e.ID, &e.YearID, &e.Score, &e.Total, &e.Percent, &cats, &e.Pass, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(cats, &e.Categories); err != nil {
			return nil, fmt.Errorf("decode categories of score %d: %w", e.ID, err)
		}
		e.YearLabel = quiz.FormatYearLabel(e.YearID)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func encodeCategories(cats []model.CategoryScore) (string, error) {
	if cats == nil {
		cats = []model.CategoryScore{}
	}
	raw, err := json.Marshal(cats)
	if err != nil {
		return "", fmt.Errorf("encode categories: %w", err)
	}
	return string(raw), nil
}
