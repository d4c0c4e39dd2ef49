// Package quiz holds the quiz state machine: a pure transition function over
// Session values, a Controller that performs the fetch side effect for one
// mounted view, and a Registry of controllers keyed by view id.
package quiz

import (
	"errors"
	"fmt"

	apperrors "github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/models"
)

// Phase is the coarse lifecycle state of a session.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseLoading    Phase = "loading"
	PhaseInProgress Phase = "in_progress"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid quiz transition")
	ErrStaleLoad         = errors.New("load result belongs to a previous attempt")
)

// Session is one play-through. It is a value: transitions return a new
// Session, and a loaded set is copied down to its answers so later changes
// to the caller's slices never reach the session.
type Session struct {
	Phase     Phase
	Questions []models.Question
	Index     int
	Score     int
	Attempt   uint64
	Err       *apperrors.SourceError
}

// Event is an input to Transition.
type Event interface {
	eventName() string
}

// Start begins a play-through.
type Start struct{}

// Loaded delivers the question set fetched for Attempt.
type Loaded struct {
	Attempt   uint64
	Questions []models.Question
}

// Failed reports that the fetch for Attempt did not produce a question set.
type Failed struct {
	Attempt uint64
	Err     error
}

// Answer selects one answer of the current question.
type Answer struct {
	Answer models.Answer
}

// Restart discards a finished or failed session and loads a new one.
type Restart struct{}

func (Start) eventName() string   { return "start" }
func (Loaded) eventName() string  { return "loaded" }
func (Failed) eventName() string  { return "failed" }
func (Answer) eventName() string  { return "answer" }
func (Restart) eventName() string { return "restart" }

// Transition applies ev to s. On error the returned session is s unchanged.
func Transition(s Session, ev Event) (Session, error) {
	switch e := ev.(type) {
	case Start:
		if s.Phase != PhaseNotStarted && s.Phase != PhaseCompleted && s.Phase != PhaseFailed {
			return s, invalid(s, ev)
		}
		return loading(s), nil

	case Restart:
		if s.Phase != PhaseCompleted && s.Phase != PhaseFailed {
			return s, invalid(s, ev)
		}
		return loading(s), nil

	case Loaded:
		if s.Phase != PhaseLoading {
			return s, invalid(s, ev)
		}
		if e.Attempt != s.Attempt {
			return s, ErrStaleLoad
		}
		if err := models.ValidateQuestionSet(e.Questions); err != nil {
			return failed(s, apperrors.NewInvalidResponseError(err)), nil
		}
		next := s
		next.Phase = PhaseInProgress
		next.Questions = cloneQuestions(e.Questions)
		next.Index = 0
		next.Score = 0
		return next, nil

	case Failed:
		if s.Phase != PhaseLoading {
			return s, invalid(s, ev)
		}
		if e.Attempt != s.Attempt {
			return s, ErrStaleLoad
		}
		return failed(s, apperrors.AsSourceError(e.Err)), nil

	case Answer:
		if s.Phase != PhaseInProgress || s.Index >= len(s.Questions) {
			return s, invalid(s, ev)
		}
		next := s
		if e.Answer.IsCorrect {
			next.Score++
		}
		next.Index++
		if next.Index == len(next.Questions) {
			next.Phase = PhaseCompleted
		}
		return next, nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func cloneQuestions(qs []models.Question) []models.Question {
	out := make([]models.Question, len(qs))
	for i, q := range qs {
		q.Answers = append([]models.Answer(nil), q.Answers...)
		out[i] = q
	}
	return out
}

func loading(s Session) Session {
	return Session{Phase: PhaseLoading, Attempt: s.Attempt + 1}
}

func failed(s Session, err *apperrors.SourceError) Session {
	return Session{Phase: PhaseFailed, Attempt: s.Attempt, Err: err}
}

func invalid(s Session, ev Event) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, ev.eventName(), s.Phase)
}

// Total is the number of questions in the set.
func (s Session) Total() int {
	return len(s.Questions)
}

// Current returns the question being presented, if any.
func (s Session) Current() (models.Question, bool) {
	if s.Phase != PhaseInProgress || s.Index >= len(s.Questions) {
		return models.Question{}, false
	}
	return s.Questions[s.Index], true
}

// ScoreLine formats the completed-screen readout.
func (s Session) ScoreLine() string {
	return fmt.Sprintf("Your score: %d/%d", s.Score, s.Total())
}
