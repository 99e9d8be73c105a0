package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rulix/auth-api/internal/database"
	"github.com/rulix/auth-api/internal/models"
)

// LoginAttemptRepository handles the append-only login audit trail.
// Records are never updated or deleted.
type LoginAttemptRepository struct {
	db *database.DB
}

func NewLoginAttemptRepository(db *database.DB) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// RecordAttempt appends a login attempt to the audit trail
func (r *LoginAttemptRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (id, username, success, hwid, ip_address, failure_reason, attempt_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	if attempt.AttemptTime.IsZero() {
		attempt.AttemptTime = time.Now().UTC()
	}

	_, err := r.db.SQL.ExecContext(ctx, query,
		attempt.ID,
		attempt.Username,
		attempt.Success,
		attempt.HWID,
		attempt.IPAddress,
		attempt.FailureReason,
		attempt.AttemptTime,
	)

	return database.MapSQLiteError(err)
}

// ListByUsername returns attempts for a username, newest first.
func (r *LoginAttemptRepository) ListByUsername(ctx context.Context, username string, limit int) ([]*models.LoginAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
		SELECT id, username, success, hwid, ip_address, failure_reason, attempt_time
		FROM login_attempts
		WHERE username = ?
		ORDER BY attempt_time DESC
		LIMIT ?
	`

	rows, err := r.db.SQL.QueryContext(ctx, query, username, limit)
	if err != nil {
		return nil, database.MapSQLiteError(err)
	}
	defer rows.Close()

	attempts := make([]*models.LoginAttempt, 0)
	for rows.Next() {
		var attempt models.LoginAttempt
		var hwid, ipAddress *string

		err := rows.Scan(
			&attempt.ID, &attempt.Username, &attempt.Success,
			&hwid, &ipAddress, &attempt.FailureReason, &attempt.AttemptTime,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan login attempt: %w", err)
		}

		if hwid != nil {
			attempt.HWID = *hwid
		}
		if ipAddress != nil {
			attempt.IPAddress = *ipAddress
		}

		attempts = append(attempts, &attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attempts, nil
}

// CountFailures returns the number of failed attempts for a username
// since the given time.
func (r *LoginAttemptRepository) CountFailures(ctx context.Context, username string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM login_attempts
		WHERE username = ? AND success = 0 AND attempt_time >= ?
	`

	var count int
	err := r.db.SQL.QueryRowContext(ctx, query, username, since).Scan(&count)
	return count, database.MapSQLiteError(err)
}
