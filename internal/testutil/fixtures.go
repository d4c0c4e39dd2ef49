package testutil

import (
	"fmt"

	"github.com/vytor/techquiz/internal/models"
)

// GargleBlasterPrompt is the prompt of the single-question fixture.
const GargleBlasterPrompt = "What does the Pan Galactic Gargle Blaster do to your brain when you drink one?"

// SingleQuestionSet returns one question whose only correct answer is the
// last one ("sparkle").
func SingleQuestionSet() []models.Question {
	return []models.Question{
		{
			ID:     "1",
			Prompt: GargleBlasterPrompt,
			Answers: []models.Answer{
				{Text: "It makes your brain turn into a frog", IsCorrect: false},
				{Text: "It makes your brain explode", IsCorrect: false},
				{Text: "It makes your brain levitate", IsCorrect: false},
				{Text: "It makes your brain sparkle", IsCorrect: true},
			},
		},
	}
}

// FirstAnswerCorrectSet returns n questions with four answers each, the
// first of which is correct.
func FirstAnswerCorrectSet(n int) []models.Question {
	out := make([]models.Question, n)
	for i := range out {
		out[i] = models.Question{
			ID:     fmt.Sprintf("q%d", i+1),
			Prompt: fmt.Sprintf("Question %d?", i+1),
			Answers: []models.Answer{
				{Text: fmt.Sprintf("Right %d", i+1), IsCorrect: true},
				{Text: fmt.Sprintf("Wrong %d-a", i+1)},
				{Text: fmt.Sprintf("Wrong %d-b", i+1)},
				{Text: fmt.Sprintf("Wrong %d-c", i+1)},
			},
		}
	}
	return out
}
