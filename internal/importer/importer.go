// Package importer loads past-exam question sets into the question store.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/kakomon/kakomon-backend/internal/validator"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// ErrEmptyFile is returned when an import file holds no questions.
var ErrEmptyFile = errors.New("import file contains no questions")

// RowError describes one rejected row of an import file.
type RowError struct {
	Row    int
	Fields map[string]string
}

func (e *RowError) Error() string {
	keys := lo.Keys(e.Fields)
	sort.Strings(keys)
	parts := lo.Map(keys, func(k string, _ int) string {
		return k + ": " + e.Fields[k]
	})
	return fmt.Sprintf("row %d: %s", e.Row, strings.Join(parts, ", "))
}

// Store is the write side of the question repository.
type Store interface {
	UpsertBatch(ctx context.Context, questions []model.QuestionRow) error
	SetYearImage(ctx context.Context, yearID int, imagePath string, from, to int) (int64, error)
}

// Summary reports what an import wrote.
type Summary struct {
	Questions int
	Years     []int
}

// Importer validates question files and writes them to a Store.
type Importer struct {
	store Store
	log   zerolog.Logger
}

// New creates a new Importer.
func New(store Store, log zerolog.Logger) *Importer {
	return &Importer{
		store: store,
		log:   log.With().Str("component", "importer").Logger(),
	}
}

// Decode reads a JSON array of question rows.
func Decode(r io.Reader) ([]model.QuestionRow, error) {
	var rows []model.QuestionRow
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	return rows, nil
}

// Validate checks every row and rejects files that repeat a
// (year_id, question_number) pair. Row numbers in errors are 1-based.
func Validate(rows []model.QuestionRow) error {
	seen := make(map[[2]int]int, len(rows))
	for i := range rows {
		row := &rows[i]
		if fields := validator.Struct(row); fields != nil {
			return &RowError{Row: i + 1, Fields: fields}
		}
		if row.CorrectChoice != nil && *row.CorrectChoice > quiz.ChoiceCount(row.QuestionNumber) {
			return &RowError{Row: i + 1, Fields: map[string]string{
				"correct_choice": fmt.Sprintf("question %d has %d choices", row.QuestionNumber, quiz.ChoiceCount(row.QuestionNumber)),
			}}
		}

		key := [2]int{row.YearID, row.QuestionNumber}
		if prev, dup := seen[key]; dup {
			return &RowError{Row: i + 1, Fields: map[string]string{
				"question_number": fmt.Sprintf("duplicates row %d", prev),
			}}
		}
		seen[key] = i + 1
	}
	return nil
}

// Import validates rows and upserts them in one transaction.
func (im *Importer) Import(ctx context.Context, rows []model.QuestionRow) (*Summary, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	if err := Validate(rows); err != nil {
		return nil, err
	}

	if err := im.store.UpsertBatch(ctx, rows); err != nil {
		return nil, err
	}

	years := lo.Uniq(lo.Map(rows, func(r model.QuestionRow, _ int) int { return r.YearID }))
	sort.Ints(years)

	for _, y := range years {
		n := lo.CountBy(rows, func(r model.QuestionRow) bool { return r.YearID == y })
		lvl := zerolog.InfoLevel
		if n < quiz.MaxQuestionNumber {
			lvl = zerolog.WarnLevel
		}
		im.log.WithLevel(lvl).Int("year_id", y).Int("questions", n).Msg("Imported year")
	}

	return &Summary{Questions: len(rows), Years: years}, nil
}

// SetYearImage attaches one figure to the image-based questions of a year.
// The file name is stored relative to the image directory.
func (im *Importer) SetYearImage(ctx context.Context, yearID int, file string) (int64, error) {
	if yearID <= 0 {
		return 0, fmt.Errorf("invalid year id %d", yearID)
	}
	name := path.Base(strings.ReplaceAll(file, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return 0, fmt.Errorf("invalid image file %q", file)
	}

	n, err := im.store.SetYearImage(ctx, yearID, name, quiz.ImageFrom, quiz.ImageTo)
	if err != nil {
		return 0, err
	}
	im.log.Info().Int("year_id", yearID).Str("image", name).Int64("questions", n).Msg("Set year image")
	return n, nil
}
