package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/techquiz/internal/db"
)

// NewTestDB opens a private in-memory SQLite database with all migrations
// applied. It is closed when the test ends.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { MustClose(t, database) })
	return database
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}
