package quiz

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Empty-state and transport errors surfaced by the Assembler.
var (
	ErrNoUsableYears  = errors.New("no candidate year has a complete set of big groups")
	ErrNothingToRetry = errors.New("missed-question set is empty")
	ErrNoQuestions    = errors.New("assembled session has no questions")
	ErrLoadFailed     = errors.New("failed to load questions")
)

// QuestionSource returns every stored question row of one exam year.
// An unknown year yields an empty slice, not an error.
type QuestionSource interface {
	ListByYear(ctx context.Context, yearID int) ([]model.QuestionRow, error)
}

// MissedStore is the per-user durable slot holding the latest missed set.
type MissedStore interface {
	Load(ctx context.Context, userID int) ([]model.Question, error)
	Store(ctx context.Context, userID int, questions []model.Question) error
	Clear(ctx context.Context, userID int) error
}

// Assembly is the ordered question list for a new session.
type Assembly struct {
	Mode          model.SessionMode
	Questions     []model.Question
	ScoringYearID int
}

// Assembler composes session question lists.
type Assembler struct {
	source    QuestionSource
	missed    MissedStore
	rng       RandomSource
	imageBase string
	log       zerolog.Logger
}

// NewAssembler creates a new Assembler.
func NewAssembler(source QuestionSource, missed MissedStore, rng RandomSource, imageBase string, log zerolog.Logger) *Assembler {
	if rng == nil {
		rng = NewRandomSource(0)
	}
	return &Assembler{
		source:    source,
		missed:    missed,
		rng:       rng,
		imageBase: imageBase,
		log:       log.With().Str("component", "assembler").Logger(),
	}
}

// SingleYear passes one year through unpartitioned, in question-number order.
func (a *Assembler) SingleYear(ctx context.Context, yearID int) (*Assembly, error) {
	questions, err := a.load(ctx, yearID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Assembly{
		Mode:          model.SessionModeSingleYear,
		Questions:     questions,
		ScoringYearID: yearID,
	}, nil
}

type yearGroups struct {
	yearID int
	groups Groups
}

// YearMix builds one session from several years, choosing each big group
// from a random year while keeping year-locked groups on one fixed year.
func (a *Assembler) YearMix(ctx context.Context, yearIDs []int) (*Assembly, error) {
	fetched := make([][]model.Question, len(yearIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, y := range yearIDs {
		g.Go(func() error {
			qs, err := a.load(gctx, y)
			if err != nil {
				return err
			}
			fetched[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var usable []yearGroups
	for i, y := range yearIDs {
		if len(fetched[i]) == 0 {
			continue
		}
		groups, err := Partition(fetched[i])
		if err != nil {
			a.log.Debug().Int("year_id", y).Msg("Skipping incomplete year")
			continue
		}
		usable = append(usable, yearGroups{yearID: y, groups: groups})
	}
	if len(usable) == 0 {
		return nil, ErrNoUsableYears
	}

	fixed := a.fixedYear(yearIDs, usable)

	var questions []model.Question
	for _, def := range BigGroups {
		var chosen *yearGroups
		if def.YearLocked() && len(fixed.groups[def.ID]) > 0 {
			chosen = fixed
		} else {
			chosen = a.pick(def.ID, usable)
		}
		if chosen == nil {
			a.log.Warn().Int("group_id", def.ID).Msg("No year provides group, omitting")
			continue
		}
		questions = append(questions, chosen.groups[def.ID]...)
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Assembly{
		Mode:          model.SessionModeYearMix,
		Questions:     questions,
		ScoringYearID: 0,
	}, nil
}

// Retry replays the user's latest missed set verbatim.
func (a *Assembler) Retry(ctx context.Context, userID int) (*Assembly, error) {
	questions, err := a.missed.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: load missed set: %v", ErrLoadFailed, err)
	}
	if len(questions) == 0 {
		return nil, ErrNothingToRetry
	}
	return &Assembly{
		Mode:          model.SessionModeRetry,
		Questions:     questions,
		ScoringYearID: questions[0].YearID,
	}, nil
}

// fixedYear is the first caller-ordered candidate with a valid partition.
func (a *Assembler) fixedYear(order []int, usable []yearGroups) *yearGroups {
	for _, y := range order {
		for i := range usable {
			if usable[i].yearID == y {
				return &usable[i]
			}
		}
	}
	return &usable[0]
}

// pick chooses uniformly among years that have the group.
func (a *Assembler) pick(groupID int, usable []yearGroups) *yearGroups {
	var candidates []*yearGroups
	for i := range usable {
		if len(usable[i].groups[groupID]) > 0 {
			candidates = append(candidates, &usable[i])
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return candidates[a.rng.IntN(len(candidates))]
}

func (a *Assembler) load(ctx context.Context, yearID int) ([]model.Question, error) {
	rows, err := a.source.ListByYear(ctx, yearID)
	if err != nil {
		a.log.Error().Err(err).Int("year_id", yearID).Msg("Question fetch failed")
		return nil, fmt.Errorf("%w: year %d: %v", ErrLoadFailed, yearID, err)
	}
	questions := NormalizeAll(rows, a.imageBase)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].QuestionNumber < questions[j].QuestionNumber
	})
	return questions, nil
}
