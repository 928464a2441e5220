package quiz

import (
	"context"
	"testing"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAssembler(src QuestionSource, missed MissedStore, rng RandomSource) *Assembler {
	return NewAssembler(src, missed, rng, "/images", zerolog.Nop())
}

// yearsByGroup returns, per group id, the set of years its questions came from.
func yearsByGroup(qs []model.Question) map[int]map[int]bool {
	out := make(map[int]map[int]bool)
	for _, q := range qs {
		def, _ := GroupOf(q.QuestionNumber)
		if out[def.ID] == nil {
			out[def.ID] = make(map[int]bool)
		}
		out[def.ID][q.YearID] = true
	}
	return out
}

func TestAssembler_SingleYear(t *testing.T) {
	rows := yearRows(201601)
	// Storage order is not trusted.
	rows[0], rows[5] = rows[5], rows[0]
	src := &fakeSource{years: map[int][]model.QuestionRow{201601: rows}}

	a, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).SingleYear(context.Background(), 201601)
	require.NoError(t, err)

	assert.Equal(t, model.SessionModeSingleYear, a.Mode)
	assert.Equal(t, 201601, a.ScoringYearID)
	require.Len(t, a.Questions, MaxQuestionNumber)
	for i, q := range a.Questions {
		assert.Equal(t, i+1, q.QuestionNumber)
	}
}

func TestAssembler_SingleYear_IncompleteYearPassesThrough(t *testing.T) {
	src := &fakeSource{years: map[int][]model.QuestionRow{201601: yearRows(201601, 3, 50)}}

	a, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).SingleYear(context.Background(), 201601)
	require.NoError(t, err)
	assert.Len(t, a.Questions, MaxQuestionNumber-2)
}

func TestAssembler_SingleYear_Empty(t *testing.T) {
	src := &fakeSource{years: map[int][]model.QuestionRow{}}

	_, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).SingleYear(context.Background(), 209901)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestAssembler_SingleYear_FetchFailure(t *testing.T) {
	src := &fakeSource{fail: map[int]error{201601: errBoom}}

	_, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).SingleYear(context.Background(), 201601)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestAssembler_YearMix_LockedGroupsFollowFirstCandidate(t *testing.T) {
	src := &fakeSource{years: map[int][]model.QuestionRow{
		201601: yearRows(201601),
		201602: yearRows(201602),
	}}

	// The random source always picks the last candidate in caller order.
	for _, order := range [][]int{{201601, 201602}, {201602, 201601}} {
		a, err := newTestAssembler(src, newFakeMissed(), fixedRand{last: true}).YearMix(context.Background(), order)
		require.NoError(t, err)

		assert.Equal(t, model.SessionModeYearMix, a.Mode)
		assert.Zero(t, a.ScoringYearID)
		require.Len(t, a.Questions, MaxQuestionNumber)

		byGroup := yearsByGroup(a.Questions)
		for _, def := range BigGroups {
			require.Len(t, byGroup[def.ID], 1, "group %d mixes years", def.ID)
			if def.YearLocked() {
				assert.True(t, byGroup[def.ID][order[0]], "locked group %d not from fixed year", def.ID)
			} else {
				assert.True(t, byGroup[def.ID][order[len(order)-1]], "unlocked group %d should follow the random pick", def.ID)
			}
		}
	}
}

func TestAssembler_YearMix_GroupsInAscendingOrder(t *testing.T) {
	src := &fakeSource{years: map[int][]model.QuestionRow{
		201601: yearRows(201601),
		201602: yearRows(201602),
	}}

	a, err := newTestAssembler(src, newFakeMissed(), NewRandomSource(42)).YearMix(context.Background(), []int{201601, 201602})
	require.NoError(t, err)

	for i, q := range a.Questions {
		assert.Equal(t, i+1, q.QuestionNumber)
	}
}

func TestAssembler_YearMix_SkipsIncompleteYears(t *testing.T) {
	src := &fakeSource{years: map[int][]model.QuestionRow{
		201601: yearRows(201601, 22),
		201602: yearRows(201602),
	}}

	a, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).YearMix(context.Background(), []int{201601, 201602, 201701})
	require.NoError(t, err)

	for _, q := range a.Questions {
		assert.Equal(t, 201602, q.YearID)
	}
}

func TestAssembler_YearMix_NoUsableYears(t *testing.T) {
	src := &fakeSource{years: map[int][]model.QuestionRow{
		201601: yearRows(201601, 1),
		201602: yearRows(201602, 60),
	}}

	_, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).YearMix(context.Background(), []int{201601, 201602, 201701})
	assert.ErrorIs(t, err, ErrNoUsableYears)
}

func TestAssembler_YearMix_FetchFailure(t *testing.T) {
	src := &fakeSource{
		years: map[int][]model.QuestionRow{201601: yearRows(201601)},
		fail:  map[int]error{201602: errBoom},
	}

	_, err := newTestAssembler(src, newFakeMissed(), fixedRand{}).YearMix(context.Background(), []int{201601, 201602})
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestAssembler_Retry(t *testing.T) {
	missed := newFakeMissed()
	asm := newTestAssembler(&fakeSource{}, missed, fixedRand{})

	_, err := asm.Retry(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNothingToRetry)

	stored := []model.Question{
		{YearID: 201702, QuestionNumber: 40},
		{YearID: 201601, QuestionNumber: 3},
	}
	require.NoError(t, missed.Store(context.Background(), 1, stored))

	a, err := asm.Retry(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, model.SessionModeRetry, a.Mode)
	assert.Equal(t, stored, a.Questions)
	assert.Equal(t, 201702, a.ScoringYearID)
}

func TestAssembler_Retry_LoadFailure(t *testing.T) {
	missed := newFakeMissed()
	missed.err = errBoom

	_, err := newTestAssembler(&fakeSource{}, missed, fixedRand{}).Retry(context.Background(), 1)
	assert.ErrorIs(t, err, ErrLoadFailed)
}
