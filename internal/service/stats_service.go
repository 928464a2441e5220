package service

import (
	"context"
	"fmt"
	"math"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/kakomon/kakomon-backend/internal/quiz"
	"github.com/samber/lo"
)

const (
	historyLimit      = 50
	hardQuestionLimit = 10
)

// YearLister lists stored exam years.
type YearLister interface {
	ListYears(ctx context.Context) ([]model.ExamYear, error)
}

// ScoreHistoryReader reads a user's stored scores.
type ScoreHistoryReader interface {
	ListByUser(ctx context.Context, userID int, yearID *int, limit int) ([]model.ScoreHistoryEntry, error)
}

// HardQuestionReader reads the most-missed questions.
type HardQuestionReader interface {
	Top(ctx context.Context, n int) ([]model.HardQuestion, error)
}

// StatsService serves the year catalog, score history and hard-question ranking.
type StatsService struct {
	years   YearLister
	scores  ScoreHistoryReader
	ranking HardQuestionReader
}

// NewStatsService creates a new StatsService.
func NewStatsService(years YearLister, scores ScoreHistoryReader, ranking HardQuestionReader) *StatsService {
	return &StatsService{years: years, scores: scores, ranking: ranking}
}

// Years lists stored exam years with their display labels.
func (s *StatsService) Years(ctx context.Context) ([]model.ExamYear, error) {
	years, err := s.years.ListYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("list years: %w", err)
	}
	return lo.Map(years, func(y model.ExamYear, _ int) model.ExamYear {
		y.Label = quiz.FormatYearLabel(y.YearID)
		return y
	}), nil
}

// History returns the user's recent scores, newest first, optionally for
// one year only, with pass counts over the listed scores.
func (s *StatsService) History(ctx context.Context, userID int, yearID *int) (*model.ScoreHistory, error) {
	entries, err := s.scores.ListByUser(ctx, userID, yearID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	if entries == nil {
		entries = []model.ScoreHistoryEntry{}
	}

	passes := lo.CountBy(entries, func(e model.ScoreHistoryEntry) bool { return e.Pass })
	var rate float64
	if len(entries) > 0 {
		rate = math.Round(float64(passes)/float64(len(entries))*1000) / 10
	}

	return &model.ScoreHistory{
		YearID:   yearID,
		Scores:   entries,
		Attempts: len(entries),
		Passes:   passes,
		PassRate: rate,
	}, nil
}

// HardQuestions returns the ten most-missed questions.
func (s *StatsService) HardQuestions(ctx context.Context) ([]model.HardQuestion, error) {
	top, err := s.ranking.Top(ctx, hardQuestionLimit)
	if err != nil {
		return nil, fmt.Errorf("hard questions: %w", err)
	}
	return lo.Filter(top, func(h model.HardQuestion, _ int) bool {
		return h.Misses > 0
	}), nil
}
