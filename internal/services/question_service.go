package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vytor/techquiz/internal/errors"
	"github.com/vytor/techquiz/internal/logger"
	"github.com/vytor/techquiz/internal/models"
	"github.com/vytor/techquiz/internal/repository"
)

// QuestionService serves random question sets from the local bank.
type QuestionService interface {
	// RandomSet returns a random question set, or a NotFound AppError when
	// the bank is empty.
	RandomSet(ctx context.Context) ([]models.Question, error)
	// FetchRandom is RandomSet for in-process use by the quiz controller.
	FetchRandom(ctx context.Context) ([]models.Question, error)
	// SeedIfEmpty loads a JSON question set into an empty bank and returns
	// how many questions were inserted.
	SeedIfEmpty(ctx context.Context, r io.Reader) (int, error)
}

type questionService struct {
	repo     repository.QuestionRepository
	quizSize int
}

// NewQuestionService creates a QuestionService returning sets of quizSize questions.
func NewQuestionService(repo repository.QuestionRepository, quizSize int) QuestionService {
	if quizSize <= 0 {
		quizSize = 10
	}
	return &questionService{repo: repo, quizSize: quizSize}
}

func (s *questionService) RandomSet(ctx context.Context) ([]models.Question, error) {
	log := logger.FromContext(ctx)
	log.Debug("selecting random question set: size=%d", s.quizSize)

	qs, err := s.repo.RandomSet(ctx, s.quizSize)
	if err != nil {
		log.Error("failed to select questions: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if len(qs) == 0 {
		return nil, errors.NewNotFoundError("questions", "random set")
	}
	return qs, nil
}

func (s *questionService) FetchRandom(ctx context.Context) ([]models.Question, error) {
	qs, err := s.RandomSet(ctx)
	if err != nil {
		appErr := errors.AsAppError(err)
		return nil, &errors.SourceError{
			Kind:   sourceKindFor(appErr.Status),
			Status: appErr.Status,
			Err:    err,
		}
	}
	return qs, nil
}

func sourceKindFor(status int) errors.SourceKind {
	if status >= 400 && status < 500 {
		return errors.KindClient
	}
	return errors.KindServer
}

func (s *questionService) SeedIfEmpty(ctx context.Context, r io.Reader) (int, error) {
	log := logger.FromContext(ctx)

	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	if n > 0 {
		log.Debug("question bank already has %d questions, skipping seed", n)
		return 0, nil
	}

	var qs []models.Question
	if err := json.NewDecoder(r).Decode(&qs); err != nil {
		return 0, errors.NewValidationError("seed", fmt.Sprintf("invalid JSON: %v", err))
	}
	if err := models.ValidateQuestionSet(qs); err != nil {
		return 0, errors.NewValidationError("seed", err.Error())
	}
	for i := range qs {
		if qs[i].ID == "" {
			qs[i].ID = uuid.NewString()
		}
	}

	if err := s.repo.InsertBatch(ctx, qs); err != nil {
		log.Error("failed to seed question bank: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("seeded question bank with %d questions", len(qs))
	return len(qs), nil
}
