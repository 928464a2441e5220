package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kakomon/kakomon-backend/internal/model"
)

const questionColumns = `id, year_id, question_number, category, question_text,
	choice1, choice2, choice3, choice4, choice5, choice6, choice7, choice8, choice9,
	correct_choice, explanation, image_path`

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByYear retrieves every stored question of one exam year, ordered by
// question number. An unknown year returns an empty slice.
func (r *QuestionRepository) ListByYear(ctx context.Context, yearID int) ([]model.QuestionRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE year_id = $1
		 ORDER BY question_number`, yearID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make([]model.QuestionRow, 0, 60)
	for rows.Next() {
		var q model.QuestionRow
		if err := rows.Scan(
			&q.ID, &q.YearID, &q.QuestionNumber, &q.Category, &q.QuestionText,
			&q.Choice1, &q.Choice2, &q.Choice3, &q.Choice4, &q.Choice5,
			&q.Choice6, &q.Choice7, &q.Choice8, &q.Choice9,
			&q.CorrectChoice, &q.Explanation, &q.ImagePath,
		); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListYears returns every exam year that has questions, oldest first.
func (r *QuestionRepository) ListYears(ctx context.Context) ([]model.ExamYear, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT year_id, COUNT(*)
		 FROM questions
		 GROUP BY year_id
		 ORDER BY year_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []model.ExamYear
	for rows.Next() {
		var y model.ExamYear
		if err := rows.Scan(&y.YearID, &y.QuestionCount); err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// UpsertBatch inserts or replaces questions keyed by (year_id, question_number)
// inside one transaction.
func (r *QuestionRepository) UpsertBatch(ctx context.Context, questions []model.QuestionRow) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, q := range questions {
		batch.Queue(
			`INSERT INTO questions (year_id, question_number, category, question_text,
				choice1, choice2, choice3, choice4, choice5, choice6, choice7, choice8, choice9,
				correct_choice, explanation, image_path)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			 ON CONFLICT (year_id, question_number) DO UPDATE SET
				category = EXCLUDED.category,
				question_text = EXCLUDED.question_text,
				choice1 = EXCLUDED.choice1, choice2 = EXCLUDED.choice2, choice3 = EXCLUDED.choice3,
				choice4 = EXCLUDED.choice4, choice5 = EXCLUDED.choice5, choice6 = EXCLUDED.choice6,
				choice7 = EXCLUDED.choice7, choice8 = EXCLUDED.choice8, choice9 = EXCLUDED.choice9,
				correct_choice = EXCLUDED.correct_choice,
				explanation = EXCLUDED.explanation,
				image_path = EXCLUDED.image_path`,
			q.YearID, q.QuestionNumber, q.Category, q.QuestionText,
			q.Choice1, q.Choice2, q.Choice3, q.Choice4, q.Choice5,
			q.Choice6, q.Choice7, q.Choice8, q.Choice9,
			q.CorrectChoice, q.Explanation, q.ImagePath,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert questions: %w", err)
	}
	return tx.Commit(ctx)
}

// SetYearImage clears image_path for the whole year, then sets it on
// questions from..to. Returns the number of questions that got the image.
func (r *QuestionRepository) SetYearImage(ctx context.Context, yearID int, imagePath string, from, to int) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE questions SET image_path = NULL WHERE year_id = $1`, yearID,
	); err != nil {
		return 0, fmt.Errorf("clear images: %w", err)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE questions SET image_path = $1
		 WHERE year_id = $2 AND question_number BETWEEN $3 AND $4`,
		imagePath, yearID, from, to,
	)
	if err != nil {
		return 0, fmt.Errorf("set images: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
