package quiz

import (
	"fmt"

	"github.com/kakomon/kakomon-backend/internal/model"
)

// Unanswered marks an answer slot with no choice selected.
const Unanswered = -1

// PassPolicy holds the two mandatory pass thresholds.
type PassPolicy struct {
	CategoryFloor float64
	OverallFloor  float64
}

// DefaultPassPolicy is 50% in every category and 70% overall.
var DefaultPassPolicy = PassPolicy{CategoryFloor: 0.5, OverallFloor: 0.7}

// AnswerDetail describes how one question was answered.
type AnswerDetail struct {
	Index          int    `json:"index"`
	Header         string `json:"header"`
	YearID         int    `json:"year_id"`
	QuestionNumber int    `json:"question_number"`
	Chosen         *int   `json:"chosen"`
	ChosenText     string `json:"chosen_text"`
	CorrectIndex   int    `json:"correct_index"`
	CorrectText    string `json:"correct_text"`
	Explanation    string `json:"explanation,omitempty"`
	Correct        bool   `json:"correct"`
}

// Result is the outcome of grading a session.
type Result struct {
	Score      int                   `json:"score"`
	Total      int                   `json:"total"`
	Percent    float64               `json:"percent"`
	Categories []model.CategoryScore `json:"categories"`
	Pass       bool                  `json:"pass"`
	Details    []AnswerDetail        `json:"details"`
	Missed     []model.Question      `json:"-"`
}

// Grader scores answers against a PassPolicy.
type Grader struct {
	policy PassPolicy
}

// NewGrader creates a new Grader.
func NewGrader(policy PassPolicy) *Grader {
	return &Grader{policy: policy}
}

// Grade scores answers (one slot per question, Unanswered for blanks).
// Unanswered and out-of-range slots count as incorrect.
func (g *Grader) Grade(questions []model.Question, answers []int) *Result {
	res := &Result{Total: len(questions)}

	catIndex := make(map[string]int)
	for i, q := range questions {
		ans := Unanswered
		if i < len(answers) {
			ans = answers[i]
		}
		ok := ans != Unanswered && ans == q.CorrectIndex

		cat := q.Category
		if cat == "" {
			cat = model.UnclassifiedCategory
		}
		ci, seen := catIndex[cat]
		if !seen {
			ci = len(res.Categories)
			catIndex[cat] = ci
			res.Categories = append(res.Categories, model.CategoryScore{Category: cat})
		}
		res.Categories[ci].Total++

		if ok {
			res.Categories[ci].Correct++
			res.Score++
		} else {
			res.Missed = append(res.Missed, q)
		}

		res.Details = append(res.Details, detailFor(i, q, ans, ok))
	}

	if res.Total > 0 {
		res.Percent = 100 * float64(res.Score) / float64(res.Total)
	}
	res.Pass = g.passes(res)
	return res
}

// passes requires every category floor and the overall floor; neither leg
// can compensate for the other.
func (g *Grader) passes(res *Result) bool {
	if res.Total == 0 {
		return false
	}
	for _, c := range res.Categories {
		if float64(c.Correct)/float64(c.Total) < g.policy.CategoryFloor {
			return false
		}
	}
	return float64(res.Score)/float64(res.Total) >= g.policy.OverallFloor
}

func detailFor(i int, q model.Question, ans int, ok bool) AnswerDetail {
	yearLabel := "年度不明"
	if q.YearID != 0 {
		yearLabel = FormatYearLabel(q.YearID)
	}

	d := AnswerDetail{
		Index:          i,
		Header:         fmt.Sprintf("Q%d (%s・問%d)", i+1, yearLabel, q.QuestionNumber),
		YearID:         q.YearID,
		QuestionNumber: q.QuestionNumber,
		ChosenText:     "未選択",
		CorrectIndex:   q.CorrectIndex,
		Explanation:    q.Explanation,
		Correct:        ok,
	}
	if q.CorrectIndex >= 0 && q.CorrectIndex < len(q.Choices) {
		d.CorrectText = q.Choices[q.CorrectIndex]
	}
	if ans >= 0 && ans < len(q.Choices) {
		chosen := ans
		d.Chosen = &chosen
		d.ChosenText = q.Choices[ans]
	}
	return d
}
