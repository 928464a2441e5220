package quiz

import (
	"testing"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoCategorySession builds 5 questions in category A then 5 in B, all with
// correct index 0, and answers so that A and B get the given number right.
func twoCategorySession(aRight, bRight int) ([]model.Question, []int) {
	var qs []model.Question
	var answers []int
	for i := 0; i < 10; i++ {
		cat := "A"
		right := aRight
		pos := i
		if i >= 5 {
			cat = "B"
			right = bRight
			pos = i - 5
		}
		qs = append(qs, model.Question{
			YearID:         201601,
			QuestionNumber: i + 1,
			Category:       cat,
			Choices:        []string{"ok", "ng"},
			CorrectIndex:   0,
		})
		if pos < right {
			answers = append(answers, 0)
		} else {
			answers = append(answers, 1)
		}
	}
	return qs, answers
}

func TestGrader_PassRule(t *testing.T) {
	g := NewGrader(DefaultPassPolicy)

	qs, answers := twoCategorySession(4, 3)
	res := g.Grade(qs, answers)
	assert.Equal(t, 7, res.Score)
	assert.InDelta(t, 70.0, res.Percent, 1e-9)
	assert.True(t, res.Pass)
	assert.Equal(t, []model.CategoryScore{
		{Category: "A", Correct: 4, Total: 5},
		{Category: "B", Correct: 3, Total: 5},
	}, res.Categories)

	qs, answers = twoCategorySession(4, 2)
	res = g.Grade(qs, answers)
	assert.Equal(t, 6, res.Score)
	assert.False(t, res.Pass)
}

func TestGrader_CategoryFloorCannotBeCompensated(t *testing.T) {
	g := NewGrader(DefaultPassPolicy)

	// A: 5/5, B: 2/5 → overall 70% but B is below the floor.
	qs, answers := twoCategorySession(5, 2)
	res := g.Grade(qs, answers)
	assert.Equal(t, 7, res.Score)
	assert.False(t, res.Pass)
}

func TestGrader_OverallFloor(t *testing.T) {
	g := NewGrader(DefaultPassPolicy)

	// Both categories at 60%: category leg passes, overall 60% fails.
	qs, answers := twoCategorySession(3, 3)
	assert.False(t, g.Grade(qs, answers).Pass)
}

func TestGrader_UnansweredCountsAsWrong(t *testing.T) {
	g := NewGrader(DefaultPassPolicy)
	qs := []model.Question{
		{QuestionNumber: 1, Choices: []string{"a", "b"}, CorrectIndex: 1},
		{QuestionNumber: 2, Choices: []string{"a", "b"}, CorrectIndex: 0},
		{QuestionNumber: 3, Choices: []string{"a", "b"}, CorrectIndex: 0},
	}

	res := g.Grade(qs, []int{1, Unanswered})
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Missed, 2)
	assert.Equal(t, 2, res.Missed[0].QuestionNumber)
	assert.Equal(t, 3, res.Missed[1].QuestionNumber)

	require.Len(t, res.Categories, 1)
	assert.Equal(t, model.UnclassifiedCategory, res.Categories[0].Category)

	assert.Equal(t, "未選択", res.Details[1].ChosenText)
	assert.Nil(t, res.Details[1].Chosen)
	assert.Equal(t, "a", res.Details[1].CorrectText)
	assert.Equal(t, "Q2 (年度不明・問2)", res.Details[1].Header)
}

func TestGrader_AllCorrectHasNoMisses(t *testing.T) {
	g := NewGrader(DefaultPassPolicy)
	qs, answers := twoCategorySession(5, 5)

	res := g.Grade(qs, answers)
	assert.Empty(t, res.Missed)
	assert.True(t, res.Pass)
	assert.Equal(t, "Q1 (2016前期・問1)", res.Details[0].Header)
}

func TestGrader_CustomPolicy(t *testing.T) {
	g := NewGrader(PassPolicy{CategoryFloor: 0.4, OverallFloor: 0.6})
	qs, answers := twoCategorySession(4, 2)
	assert.True(t, g.Grade(qs, answers).Pass)
}

func TestGrader_EmptySession(t *testing.T) {
	res := NewGrader(DefaultPassPolicy).Grade(nil, nil)
	assert.Zero(t, res.Total)
	assert.Zero(t, res.Percent)
	assert.False(t, res.Pass)
}
