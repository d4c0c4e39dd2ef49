package repository

import (
	"context"

	"github.com/vytor/techquiz/internal/models"
)

// QuestionRepository handles question bank data access
type QuestionRepository interface {
	// RandomSet returns up to limit random questions, answers in display order.
	RandomSet(ctx context.Context, limit int) ([]models.Question, error)
	Count(ctx context.Context) (int, error)
	// InsertBatch stores questions and their answers in one transaction.
	InsertBatch(ctx context.Context, questions []models.Question) error
}
