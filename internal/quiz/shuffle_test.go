package quiz

import (
	"strings"
	"testing"

	"github.com/kakomon/kakomon-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShuffleChoices_KeepsCorrectText(t *testing.T) {
	rng := NewRandomSource(7)
	seen := make(map[string]bool)

	for i := 0; i < 600; i++ {
		shuffled, correct, order := ShuffleChoices([]string{"x", "y", "z"}, 1, rng)
		require.Len(t, shuffled, 3)
		require.Equal(t, "y", shuffled[correct])
		require.Equal(t, 1, order[correct])
		assert.ElementsMatch(t, []string{"x", "y", "z"}, shuffled)
		seen[strings.Join(shuffled, "")] = true
	}

	assert.Len(t, seen, 6, "expected all 3! permutations")
}

func TestShuffleChoices_DuplicateTextTracksOriginalIndex(t *testing.T) {
	rng := NewRandomSource(11)
	for i := 0; i < 200; i++ {
		shuffled, correct, order := ShuffleChoices([]string{"same", "same", "other"}, 1, rng)
		require.Equal(t, 1, order[correct])
		assert.Equal(t, "same", shuffled[correct])
	}
}

func TestShuffleChoices_DoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	ShuffleChoices(in, 0, fixedRand{})
	assert.Equal(t, []string{"a", "b", "c", "d"}, in)
}

func TestShuffleQuestion(t *testing.T) {
	q := model.Question{Choices: []string{"a", "b", "c"}, CorrectIndex: 2}
	got := ShuffleQuestion(q, fixedRand{})

	assert.Equal(t, "c", got.Choices[got.CorrectIndex])
	assert.Equal(t, []string{"a", "b", "c"}, q.Choices)
}
