package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const apiTimeout = 30 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(timeoutMiddleware(apiTimeout))
		r.Get("/questions/random", s.handleRandomQuestions)
	})

	r.Post("/quiz/dispose", s.handleDispose)

	r.Group(func(r chi.Router) {
		r.Use(s.viewMiddleware)
		r.Get("/", s.handleHome)
		r.Post("/quiz/start", s.handleStart)
		r.Post("/quiz/answer", s.handleAnswer)
		r.Post("/quiz/restart", s.handleRestart)
		r.Get("/quiz/state", s.handleState)
		r.Get("/quiz/ws", s.handleQuizSocket)
	})

	return r
}
