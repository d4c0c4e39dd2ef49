package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/quiz"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	c := controllerFromContext(r.Context())

	view := c.View()
	log.Debug("rendering quiz view: phase=%s", view.Phase)
	s.render(w, r, "quiz.html", pageData{
		"view": view,
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	view, err := controllerFromContext(r.Context()).Start()
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("quiz started")
	respondView(w, r, view)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	view, err := controllerFromContext(r.Context()).Restart()
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("quiz restarted")
	respondView(w, r, view)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	index, err := parseAnswerIndex(r)
	if err != nil {
		log.Warn("invalid answer index: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid answer index"))
		return
	}

	view, err := controllerFromContext(r.Context()).SelectAnswer(index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.WithFields(map[string]any{
		"index": index,
		"score": view.Score,
	}).Debug("answer recorded")
	respondView(w, r, view)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, controllerFromContext(r.Context()).View())
}

// handleDispose unmounts the caller's view. It does not go through
// viewMiddleware so that disposing never mounts a fresh view.
func (s *Server) handleDispose(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if cookie, err := r.Cookie(viewCookieName); err == nil && cookie.Value != "" {
		if s.Registry.Dispose(cookie.Value) {
			log.Info("view disposed: id=%s", cookie.Value)
		}
	}
	clearViewCookie(w)

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func respondView(w http.ResponseWriter, r *http.Request, view quiz.View) {
	if wantsJSON(r) {
		writeJSON(w, r, http.StatusOK, view)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type answerRequest struct {
	Index *int `json:"index"`
}

func parseAnswerIndex(r *http.Request) (int, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req answerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return 0, err
		}
		if req.Index == nil {
			return 0, errors.NewValidationError("index", "required")
		}
		return *req.Index, nil
	}
	return strconv.Atoi(r.FormValue("index"))
}
