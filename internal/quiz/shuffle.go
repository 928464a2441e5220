package quiz

import "github.com/kakomon/kakomon-backend/internal/model"

// ShuffleChoices permutes choices with Fisher–Yates and returns the shuffled
// list, the new position of the correct choice and, for each new position,
// the original index it came from. Correctness follows the original index,
// not the text, so duplicate choice texts are graded correctly.
func ShuffleChoices(choices []string, correct int, rng RandomSource) ([]string, int, []int) {
	order := make([]int, len(choices))
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		order[i], order[j] = order[j], order[i]
	}

	shuffled := make([]string, len(choices))
	newCorrect := -1
	for pos, orig := range order {
		shuffled[pos] = choices[orig]
		if orig == correct {
			newCorrect = pos
		}
	}
	return shuffled, newCorrect, order
}

// ShuffleQuestion returns a copy of q with its choices shuffled.
func ShuffleQuestion(q model.Question, rng RandomSource) model.Question {
	q.Choices, q.CorrectIndex, _ = ShuffleChoices(q.Choices, q.CorrectIndex, rng)
	return q
}
