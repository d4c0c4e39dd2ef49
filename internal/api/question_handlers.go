package api

import (
	"net/http"

	"github.com/vytor/techquiz/internal/logger"
)

// handleRandomQuestions serves a random question set in the wire format the
// question client consumes.
func (s *Server) handleRandomQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.QuestionService.RandomSet(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Debug("serving %d questions", len(questions))
	writeJSON(w, r, http.StatusOK, questions)
}
