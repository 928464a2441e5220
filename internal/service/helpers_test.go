package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/rs/zerolog"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// fullYear builds questions 1–60 of one year; the first choice is always correct.
func fullYear(yearID int) []model.QuestionRow {
	rows := make([]model.QuestionRow, 0, quiz.MaxQuestionNumber)
	for n := 1; n <= quiz.MaxQuestionNumber; n++ {
		row := model.QuestionRow{
			ID:             int64(yearID*100 + n),
			YearID:         yearID,
			QuestionNumber: n,
			Category:       strPtr(fmt.Sprintf("cat%d", (n-1)/15+1)),
			QuestionText:   strPtr(fmt.Sprintf("question %d", n)),
			CorrectChoice:  intPtr(1),
			ImagePath:      strPtr("figure.png"),
		}
		for i, c := range []**string{&row.Choice1, &row.Choice2, &row.Choice3, &row.Choice4, &row.Choice5, &row.Choice6, &row.Choice7, &row.Choice8, &row.Choice9} {
			*c = strPtr(fmt.Sprintf("%d-%d-%d", yearID, n, i+1))
		}
		rows = append(rows, row)
	}
	return rows
}

type fakeSource struct {
	years map[int][]model.QuestionRow
}

func (f *fakeSource) ListByYear(_ context.Context, yearID int) ([]model.QuestionRow, error) {
	return f.years[yearID], nil
}

type fakeMissed struct {
	mu   sync.Mutex
	sets map[int][]model.Question
	// delay slows Store down to widen the grading window
	delay time.Duration
}

func (f *fakeMissed) Load(_ context.Context, userID int) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[userID], nil
}

func (f *fakeMissed) Store(_ context.Context, userID int, qs []model.Question) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[userID] = qs
	return nil
}

func (f *fakeMissed) Clear(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sets, userID)
	return nil
}

func (f *fakeMissed) get(userID int) []model.Question {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[userID]
}

type fakeScores struct {
	mu      sync.Mutex
	err     error
	records []model.ScoreRecord
}

func (f *fakeScores) Submit(_ context.Context, rec model.ScoreRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeScores) all() []model.ScoreRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ScoreRecord(nil), f.records...)
}

type fakeRanking struct {
	mu     sync.Mutex
	misses map[string]int64
}

func (f *fakeRanking) RecordMisses(_ context.Context, missed []model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, q := range missed {
		f.misses[fmt.Sprintf("%d-%d", q.YearID, q.QuestionNumber)]++
	}
	return nil
}

func (f *fakeRanking) count(key string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.misses[key]
}

var errBoom = errors.New("boom")

type quizFixture struct {
	svc     *QuizService
	missed  *fakeMissed
	scores  *fakeScores
	ranking *fakeRanking
}

func newQuizFixture(opts QuizOptions, years ...int) *quizFixture {
	src := &fakeSource{years: make(map[int][]model.QuestionRow)}
	for _, y := range years {
		src.years[y] = fullYear(y)
	}
	f := &quizFixture{
		missed:  &fakeMissed{sets: make(map[int][]model.Question)},
		scores:  &fakeScores{},
		ranking: &fakeRanking{misses: make(map[string]int64)},
	}
	if opts.TimeLimit == 0 {
		opts.TimeLimit = time.Hour
	}
	if opts.Policy == (quiz.PassPolicy{}) {
		opts.Policy = quiz.DefaultPassPolicy
	}
	f.svc = NewQuizService(src, f.missed, f.scores, f.ranking, quiz.NewRandomSource(7), "/images", opts, zerolog.Nop())
	return f
}
