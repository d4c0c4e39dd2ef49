package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoQuestions     = errors.New("question set is empty")
	ErrInvalidQuestion = errors.New("invalid question")
)

// Answer is one selectable option of a question. Exactly one answer per
// question is expected to be correct, but nothing here enforces it.
type Answer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a prompt with its answers in display order.
type Question struct {
	ID      string   `json:"_id"`
	Prompt  string   `json:"question"`
	Answers []Answer `json:"answers"`
}

// Validate checks the fields a question needs to be displayed. The ID is
// optional: it is never shown and the quiz does not key on it.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: missing prompt", ErrInvalidQuestion)
	}
	if len(q.Answers) == 0 {
		return fmt.Errorf("%w: no answers", ErrInvalidQuestion)
	}
	for i, a := range q.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("%w: answer %d has no text", ErrInvalidQuestion, i)
		}
	}
	return nil
}

// ValidateQuestionSet rejects an empty set or the first invalid question in it.
func ValidateQuestionSet(questions []Question) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
