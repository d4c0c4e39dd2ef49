package api

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/vytor/techquiz/internal/db"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/quiz"
	"github.com/vytor/techquiz/internal/services"
)

type Server struct {
	DB              *db.DB
	Registry        *quiz.Registry
	QuestionService services.QuestionService
	Templates       *template.Template
	SecureCookies   bool
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
