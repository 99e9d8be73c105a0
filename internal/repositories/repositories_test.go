package repositories_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/rulix/auth-api/internal/config"
	"github.com/rulix/auth-api/internal/database"

	"github.com/stretchr/testify/require"
)

// newTestDB opens a throwaway database file under t.TempDir with the
// full schema applied, exactly as the server does at startup.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := database.NewConnection(&config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	}, logger)
	require.NoError(t, err)

	t.Cleanup(db.Close)
	return db
}
