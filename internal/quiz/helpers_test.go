package quiz

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kakomon/kakomon-backend/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// yearRows builds a full 1–60 year with every question's first choice correct,
// skipping the numbers in missing.
func yearRows(yearID int, missing ...int) []model.QuestionRow {
	skip := make(map[int]bool, len(missing))
	for _, n := range missing {
		skip[n] = true
	}

	var rows []model.QuestionRow
	for n := 1; n <= MaxQuestionNumber; n++ {
		if skip[n] {
			continue
		}
		row := model.QuestionRow{
			ID:             int64(yearID*100 + n),
			YearID:         yearID,
			QuestionNumber: n,
			Category:       strPtr(fmt.Sprintf("cat%d", (n-1)/15+1)),
			QuestionText:   strPtr(fmt.Sprintf("text %d-%d", yearID, n)),
			CorrectChoice:  intPtr(1),
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
	fail  map[int]error
}

func (f *fakeSource) ListByYear(_ context.Context, yearID int) ([]model.QuestionRow, error) {
	if err := f.fail[yearID]; err != nil {
		return nil, err
	}
	return f.years[yearID], nil
}

type fakeMissed struct {
	mu    sync.Mutex
	sets  map[int][]model.Question
	err   error
	calls int
}

func newFakeMissed() *fakeMissed {
	return &fakeMissed{sets: make(map[int][]model.Question)}
}

func (f *fakeMissed) Load(_ context.Context, userID int) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.sets[userID], nil
}

func (f *fakeMissed) Store(_ context.Context, userID int, qs []model.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.sets[userID] = qs
	return nil
}

func (f *fakeMissed) Clear(_ context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	delete(f.sets, userID)
	return nil
}

// fixedRand always returns the same offset from the top of the range.
type fixedRand struct{ last bool }

func (f fixedRand) IntN(n int) int {
	if f.last {
		return n - 1
	}
	return 0
}

var errBoom = errors.New("boom")
