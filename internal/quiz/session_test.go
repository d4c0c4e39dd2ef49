package quiz_test

import (
	stderrors "errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/models"
	"github.com/vytor/techquiz/internal/quiz"
	"github.com/vytor/techquiz/internal/testutil"
)

// started returns a session that has been started and loaded with qs.
func started(t *testing.T, qs []models.Question) quiz.Session {
	t.Helper()
	s, err := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})
	require.NoError(t, err)
	s, err = quiz.Transition(s, quiz.Loaded{Attempt: s.Attempt, Questions: qs})
	require.NoError(t, err)
	require.Equal(t, quiz.PhaseInProgress, s.Phase)
	return s
}

func answerByText(t *testing.T, s quiz.Session, text string) quiz.Session {
	t.Helper()
	q, ok := s.Current()
	require.True(t, ok)
	for _, a := range q.Answers {
		if a.Text == text {
			next, err := quiz.Transition(s, quiz.Answer{Answer: a})
			require.NoError(t, err)
			return next
		}
	}
	t.Fatalf("no answer %q", text)
	return s
}

func answerByIndex(t *testing.T, s quiz.Session, i int) quiz.Session {
	t.Helper()
	q, ok := s.Current()
	require.True(t, ok)
	next, err := quiz.Transition(s, quiz.Answer{Answer: q.Answers[i]})
	require.NoError(t, err)
	return next
}

func TestStart_FromNotStartedEntersLoading(t *testing.T) {
	s, err := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})

	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseLoading, s.Phase)
	assert.Equal(t, uint64(1), s.Attempt)
	assert.Empty(t, s.Questions)
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Index)
}

func TestStart_IgnoredWhileLoadingOrInProgress(t *testing.T) {
	loading, err := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})
	require.NoError(t, err)

	again, err := quiz.Transition(loading, quiz.Start{})
	assert.ErrorIs(t, err, quiz.ErrInvalidTransition)
	assert.Equal(t, loading, again, "re-entrant start must not issue a new attempt")

	playing := started(t, testutil.SingleQuestionSet())
	again, err = quiz.Transition(playing, quiz.Start{})
	assert.ErrorIs(t, err, quiz.ErrInvalidTransition)
	assert.Equal(t, playing, again)
}

func TestScenarioA_CorrectSingleAnswer(t *testing.T) {
	s := started(t, testutil.SingleQuestionSet())

	s = answerByText(t, s, "It makes your brain sparkle")

	assert.Equal(t, quiz.PhaseCompleted, s.Phase)
	assert.Equal(t, 1, s.Score)
	assert.Equal(t, "Your score: 1/1", s.ScoreLine())
}

func TestScenarioB_IncorrectSingleAnswer(t *testing.T) {
	s := started(t, testutil.SingleQuestionSet())

	s = answerByText(t, s, "It makes your brain explode")

	assert.Equal(t, quiz.PhaseCompleted, s.Phase)
	assert.Equal(t, 0, s.Score)
	assert.Equal(t, "Your score: 0/1", s.ScoreLine())
}

func TestScenarioC_ThreeQuestions(t *testing.T) {
	tests := []struct {
		name    string
		picks   []int
		want    string
		wantScr int
	}{
		{"all correct", []int{0, 0, 0}, "Your score: 3/3", 3},
		{"none correct", []int{1, 2, 3}, "Your score: 0/3", 0},
		{"one correct", []int{0, 1, 2}, "Your score: 1/3", 1},
		{"two correct", []int{0, 0, 1}, "Your score: 2/3", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := started(t, testutil.FirstAnswerCorrectSet(3))
			for i, pick := range tt.picks {
				require.Equal(t, quiz.PhaseInProgress, s.Phase, "completed early at selection %d", i)
				s = answerByIndex(t, s, pick)
			}
			assert.Equal(t, quiz.PhaseCompleted, s.Phase)
			assert.Equal(t, tt.wantScr, s.Score)
			assert.Equal(t, tt.want, s.ScoreLine())
		})
	}
}

func TestScenarioD_StatusFailureEntersFailed(t *testing.T) {
	for _, status := range []int{404, 500} {
		s, err := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})
		require.NoError(t, err)

		s, err = quiz.Transition(s, quiz.Failed{Attempt: s.Attempt, Err: errors.NewStatusError(status, "")})
		require.NoError(t, err)

		assert.Equal(t, quiz.PhaseFailed, s.Phase)
		require.NotNil(t, s.Err)
		assert.Equal(t, status, s.Err.Status)
		v := quiz.ViewOf(s)
		assert.Empty(t, v.ScoreLine, "no score readout after a failed load")
		assert.Nil(t, v.Question)
		assert.Equal(t, quiz.FailedMessage, v.Error)
	}
}

func TestView_FailedLoadTransience(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"transport", stderrors.New("connection refused"), true},
		{"server status", errors.NewStatusError(503, ""), true},
		{"client status", errors.NewStatusError(404, ""), false},
		{"invalid body", errors.NewInvalidResponseError(models.ErrNoQuestions), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})
			s, err := quiz.Transition(s, quiz.Failed{Attempt: s.Attempt, Err: tt.err})
			require.NoError(t, err)

			assert.Equal(t, tt.transient, quiz.ViewOf(s).Transient)
		})
	}

	s, _ := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})
	s, _ = quiz.Transition(s, quiz.Loaded{Attempt: s.Attempt, Questions: nil})
	assert.False(t, quiz.ViewOf(s).Transient, "an empty set is not worth retrying")
}

func TestLoaded_EmptySetFails(t *testing.T) {
	s, _ := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})

	s, err := quiz.Transition(s, quiz.Loaded{Attempt: s.Attempt, Questions: nil})

	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseFailed, s.Phase)
	require.NotNil(t, s.Err)
	assert.Equal(t, errors.KindInvalid, s.Err.Kind)
	assert.ErrorIs(t, s.Err, models.ErrNoQuestions)
}

func TestLoaded_MalformedQuestionFailsWholeSet(t *testing.T) {
	qs := testutil.FirstAnswerCorrectSet(3)
	qs[2].Answers = nil
	s, _ := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})

	s, err := quiz.Transition(s, quiz.Loaded{Attempt: s.Attempt, Questions: qs})

	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseFailed, s.Phase)
	assert.Empty(t, s.Questions, "no partial use of a malformed set")
	assert.ErrorIs(t, s.Err, models.ErrInvalidQuestion)
}

func TestLoaded_StaleAttemptIgnored(t *testing.T) {
	s, _ := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})
	s, _ = quiz.Transition(s, quiz.Failed{Attempt: s.Attempt, Err: stderrors.New("down")})
	s, err := quiz.Transition(s, quiz.Restart{})
	require.NoError(t, err)
	require.Equal(t, uint64(2), s.Attempt)

	next, err := quiz.Transition(s, quiz.Loaded{Attempt: 1, Questions: testutil.SingleQuestionSet()})
	assert.ErrorIs(t, err, quiz.ErrStaleLoad)
	assert.Equal(t, s, next)

	next, err = quiz.Transition(s, quiz.Failed{Attempt: 1, Err: stderrors.New("late")})
	assert.ErrorIs(t, err, quiz.ErrStaleLoad)
	assert.Equal(t, s, next)
}

func TestLoaded_DoesNotAliasCallerSlices(t *testing.T) {
	qs := testutil.FirstAnswerCorrectSet(2)
	s := started(t, qs)

	qs[0].Answers[0] = models.Answer{Text: "mutated", IsCorrect: false}
	qs[1].Answers[0].IsCorrect = false
	qs[0] = models.Question{Prompt: "replaced"}

	q, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Question 1?", q.Prompt)
	assert.Equal(t, models.Answer{Text: "Right 1", IsCorrect: true}, q.Answers[0])
	assert.True(t, s.Questions[1].Answers[0].IsCorrect)

	s, err := quiz.Transition(s, quiz.Answer{Answer: q.Answers[0]})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Score)
}

func TestFailed_PlainErrorClassifiedAsTransport(t *testing.T) {
	s, _ := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Start{})

	s, err := quiz.Transition(s, quiz.Failed{Attempt: s.Attempt, Err: stderrors.New("connection refused")})

	require.NoError(t, err)
	assert.Equal(t, errors.KindTransport, s.Err.Kind)
}

func TestAnswer_RejectedOutsideInProgress(t *testing.T) {
	a := quiz.Answer{Answer: models.Answer{Text: "x", IsCorrect: true}}

	for _, s := range []quiz.Session{
		{Phase: quiz.PhaseNotStarted},
		{Phase: quiz.PhaseLoading, Attempt: 1},
		{Phase: quiz.PhaseFailed, Attempt: 1},
	} {
		next, err := quiz.Transition(s, a)
		assert.ErrorIs(t, err, quiz.ErrInvalidTransition, "phase %s", s.Phase)
		assert.Equal(t, s, next)
	}

	done := answerByIndex(t, started(t, testutil.SingleQuestionSet()), 3)
	next, err := quiz.Transition(done, a)
	assert.ErrorIs(t, err, quiz.ErrInvalidTransition)
	assert.Equal(t, 1, next.Score)
	assert.Equal(t, 1, next.Index)
}

func TestAnswer_OnlyFlagMatters(t *testing.T) {
	// The correct answer is not at position 0.
	s := started(t, testutil.SingleQuestionSet())
	s = answerByIndex(t, s, 0)
	assert.Equal(t, 0, s.Score)
}

func TestRestart(t *testing.T) {
	_, err := quiz.Transition(quiz.Session{Phase: quiz.PhaseNotStarted}, quiz.Restart{})
	assert.ErrorIs(t, err, quiz.ErrInvalidTransition)

	playing := started(t, testutil.FirstAnswerCorrectSet(2))
	_, err = quiz.Transition(playing, quiz.Restart{})
	assert.ErrorIs(t, err, quiz.ErrInvalidTransition)

	done := answerByIndex(t, answerByIndex(t, playing, 0), 0)
	require.Equal(t, quiz.PhaseCompleted, done.Phase)

	s, err := quiz.Transition(done, quiz.Restart{})
	require.NoError(t, err)
	assert.Equal(t, quiz.PhaseLoading, s.Phase)
	assert.Equal(t, done.Attempt+1, s.Attempt, "restart issues a fresh fetch")
	assert.Zero(t, s.Score)
	assert.Zero(t, s.Index)
	assert.Empty(t, s.Questions)
}

func TestView_HidesCorrectness(t *testing.T) {
	s := started(t, testutil.SingleQuestionSet())

	v := quiz.ViewOf(s)

	require.NotNil(t, v.Question)
	assert.Equal(t, testutil.GargleBlasterPrompt, v.Question.Prompt)
	assert.Equal(t, []string{
		"It makes your brain turn into a frog",
		"It makes your brain explode",
		"It makes your brain levitate",
		"It makes your brain sparkle",
	}, v.Question.Answers)
	assert.Equal(t, 1, v.Number())
	assert.Equal(t, 1, v.Total)
}

func TestInvariants_RandomPlaythroughs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := 1 + rng.Intn(8)
		qs := make([]models.Question, n)
		for i := range qs {
			answers := make([]models.Answer, 2+rng.Intn(4))
			for j := range answers {
				answers[j].Text = "a"
			}
			answers[rng.Intn(len(answers))].IsCorrect = true
			qs[i] = models.Question{Prompt: "p", Answers: answers}
		}

		s := started(t, qs)
		for sel := 0; sel < n; sel++ {
			require.NotEqual(t, quiz.PhaseCompleted, s.Phase, "completed before %d selections", n)
			q, _ := s.Current()
			a := q.Answers[rng.Intn(len(q.Answers))]
			before := s.Score

			next, err := quiz.Transition(s, quiz.Answer{Answer: a})
			require.NoError(t, err)

			if a.IsCorrect {
				assert.Equal(t, before+1, next.Score)
			} else {
				assert.Equal(t, before, next.Score)
			}
			assert.Equal(t, s.Index+1, next.Index)
			assert.True(t, 0 <= next.Score && next.Score <= next.Index && next.Index <= next.Total())
			s = next
		}
		assert.Equal(t, quiz.PhaseCompleted, s.Phase)
	}
}
