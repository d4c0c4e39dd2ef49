package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/quiz"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := toAppError(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	if strings.HasPrefix(r.URL.Path, "/api/") || wantsJSON(r) {
		writeJSON(w, r, appErr.Status, map[string]any{
			"error": map[string]any{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	http.Error(w, appErr.Message, appErr.Status)
}

func toAppError(err error) *errors.AppError {
	switch {
	case stderrors.Is(err, quiz.ErrInvalidAnswer):
		return errors.NewBadRequestError(err.Error())
	case stderrors.Is(err, quiz.ErrInvalidTransition):
		return errors.NewConflictError(err.Error(), err)
	case stderrors.Is(err, quiz.ErrDisposed):
		return errors.NewConflictError("view has been disposed", err)
	}
	return errors.AsAppError(err)
}
