package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/techquiz/internal/errors"
)

func TestAsAppError(t *testing.T) {
	notFound := errors.NewNotFoundError("question set", "random")
	wrapped := fmt.Errorf("handler: %w", notFound)

	assert.Same(t, notFound, errors.AsAppError(wrapped))

	internal := errors.AsAppError(stderrors.New("boom"))
	assert.Equal(t, errors.ErrCodeInternal, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.Status)
	assert.Contains(t, internal.Error(), "boom")
}

func TestNewConflictError(t *testing.T) {
	cause := stderrors.New("already loading")
	err := errors.NewConflictError("cannot start quiz", cause)

	assert.Equal(t, http.StatusConflict, err.Status)
	assert.ErrorIs(t, err, cause)
}

func TestNewStatusError(t *testing.T) {
	tests := []struct {
		status int
		kind   errors.SourceKind
	}{
		{http.StatusNotFound, errors.KindClient},
		{http.StatusBadRequest, errors.KindClient},
		{http.StatusInternalServerError, errors.KindServer},
		{http.StatusBadGateway, errors.KindServer},
		{http.StatusNoContent, errors.KindServer},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := errors.NewStatusError(tt.status, "")
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestAsSourceError(t *testing.T) {
	invalid := errors.NewInvalidResponseError(stderrors.New("empty"))
	got := errors.AsSourceError(fmt.Errorf("load: %w", invalid))
	require.NotNil(t, got)
	assert.Equal(t, errors.KindInvalid, got.Kind)
	assert.False(t, got.IsTransient())

	other := errors.AsSourceError(stderrors.New("dial tcp: refused"))
	assert.Equal(t, errors.KindTransport, other.Kind)
	assert.True(t, other.IsTransient())
}
