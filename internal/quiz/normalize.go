package quiz

import (
	"fmt"
	"strings"

	"github.com/kakomon/kakomon-backend/internal/model"
)

// Question number ranges with special handling.
const (
	MaxQuestionNumber = 60

	readingFrom = 49
	readingTo   = 60

	ImageFrom = 21
	ImageTo   = 24
)

// ChoiceCount returns how many answer choices a question number carries.
func ChoiceCount(n int) int {
	switch {
	case n <= 16:
		return 2
	case n <= 24:
		return 3
	case n <= 32:
		return 3
	case n <= 48:
		return 4
	default:
		return 9
	}
}

// IsReadingNumber reports whether n belongs to the reading-passage block.
func IsReadingNumber(n int) bool {
	return n >= readingFrom && n <= readingTo
}

// ReadingRoot returns the lead question of n's passage cluster, or 0 when n
// is not a reading question.
func ReadingRoot(n int) int {
	switch {
	case !IsReadingNumber(n):
		return 0
	case n <= 51:
		return 49
	case n <= 54:
		return 52
	case n <= 57:
		return 55
	default:
		return 58
	}
}

// Normalize converts a stored row into the canonical question shape.
// Malformed fields degrade to empty text; it never fails.
func Normalize(row model.QuestionRow, imageBase string) model.Question {
	n := row.QuestionNumber
	count := ChoiceCount(n)

	raw := row.Choices()
	choices := make([]string, count)
	for i := 0; i < count; i++ {
		if raw[i] != nil {
			choices[i] = *raw[i]
		}
	}

	correct := 1
	if row.CorrectChoice != nil && *row.CorrectChoice != 0 {
		correct = *row.CorrectChoice
	}
	if correct < 1 || correct > count {
		correct = 1
	}

	category := strings.TrimSpace(deref(row.Category))
	if category == "" {
		category = model.UnclassifiedCategory
	}

	text := deref(row.QuestionText)

	q := model.Question{
		ID:             row.ID,
		YearID:         row.YearID,
		QuestionNumber: n,
		Category:       category,
		RawText:        text,
		Prompt:         text,
		Choices:        choices,
		CorrectIndex:   correct - 1,
		Explanation:    deref(row.Explanation),
		Image:          imageFor(n, deref(row.ImagePath), imageBase),
	}

	if root := ReadingRoot(n); root != 0 {
		q.ReadingRoot = root
		if n == root {
			q.ReadingPassage = text
			q.Prompt = fmt.Sprintf("（%d）に適する語句を選べ", n)
		} else {
			q.Prompt = fmt.Sprintf("問%d の（%d）に適する語句を選べ", root, n)
		}
	}

	return q
}

// NormalizeAll maps Normalize over rows.
func NormalizeAll(rows []model.QuestionRow, imageBase string) []model.Question {
	out := make([]model.Question, len(rows))
	for i := range rows {
		out[i] = Normalize(rows[i], imageBase)
	}
	return out
}

// imageFor keeps an image reference only for the figure group (21–24).
func imageFor(n int, path, base string) string {
	if n < ImageFrom || n > ImageTo || path == "" {
		return ""
	}
	if strings.HasPrefix(path, "/") || strings.Contains(path, "://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + path
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
