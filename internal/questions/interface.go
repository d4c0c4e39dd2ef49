package questions

import (
	"context"

	"github.com/vytor/techquiz/internal/models"
)

// ClientInterface defines the question-source read operation.
type ClientInterface interface {
	FetchRandom(ctx context.Context) ([]models.Question, error)
}

var _ ClientInterface = (*Client)(nil)
