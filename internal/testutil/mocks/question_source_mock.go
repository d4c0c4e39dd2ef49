package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/techquiz/internal/models"
)

// MockQuestionSource is a mock implementation of quiz.Source and
// questions.ClientInterface.
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) FetchRandom(ctx context.Context) ([]models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Question), args.Error(1)
}
