package quiz

const FailedMessage = "Unable to load quiz questions."

// QuestionView is the presentable part of a question. Correctness flags are
// never exposed to the presentation layer.
type QuestionView struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"prompt"`
	Answers []string `json:"answers"`
}

// View is what the presentation layer renders.
type View struct {
	Phase     Phase         `json:"phase"`
	Question  *QuestionView `json:"question,omitempty"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Score     int           `json:"score"`
	ScoreLine string        `json:"score_line,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
	// Transient is set when retrying the failed load could plausibly succeed.
	Transient bool          `json:"transient,omitempty"`
}

// ViewOf derives the rendering snapshot of s.
func ViewOf(s Session) View {
	v := View{
		Phase: s.Phase,
		Index: s.Index,
		Total: s.Total(),
		Score: s.Score,
	}
	if q, ok := s.Current(); ok {
		qv := &QuestionView{ID: q.ID, Prompt: q.Prompt, Answers: make([]string, len(q.Answers))}
		for i, a := range q.Answers {
			qv.Answers[i] = a.Text
		}
		v.Question = qv
	}
	if s.Phase == PhaseCompleted {
		v.ScoreLine = s.ScoreLine()
	}
	if s.Phase == PhaseFailed {
		v.Error = FailedMessage
		if s.Err != nil {
			v.ErrorKind = string(s.Err.Kind)
			v.Transient = s.Err.IsTransient()
		}
	}
	return v
}

// Number is the 1-based position of the current question.
func (v View) Number() int {
	return v.Index + 1
}
