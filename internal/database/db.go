package database

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/rulix/auth-api/internal/models"
)

// MapSQLiteError translates driver errors into the model error taxonomy.
// The UNIQUE constraint on accounts.username is the source of truth for
// duplicate detection; callers never pre-check and race.
func MapSQLiteError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return models.ErrConflict
	}

	return err
}
