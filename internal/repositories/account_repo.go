package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/rulix/auth-api/internal/database"
	"github.com/rulix/auth-api/internal/models"
)

type AccountRepository struct {
	db *database.DB
}

func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAccountRow handles nullable columns and populates an Account model
func scanAccountRow(scanner rowScanner) (*models.Account, error) {
	var account models.Account
	var hwid *string

	err := scanner.Scan(
		&account.ID, &account.Username, &account.PasswordHash,
		&account.LicenseKey, &hwid, &account.ExpiresAt,
		&account.IsActive, &account.CreatedAt,
	)
	if err != nil {
		return nil, database.MapSQLiteError(err)
	}

	if hwid != nil {
		account.HWID = *hwid
	}

	return &account, nil
}

const accountColumns = `id, username, password_hash, license_key, hwid, expires_at, is_active, created_at`

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`

	return scanAccountRow(r.db.SQL.QueryRowContext(ctx, query, username))
}

func (r *AccountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (username, password_hash, license_key, hwid, expires_at, is_active, created_at)
		VALUES (?, ?, ?, NULLIF(?, ''), ?, ?, ?)
	`

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.SQL.ExecContext(ctx, query,
		account.Username,
		account.PasswordHash,
		account.LicenseKey,
		account.HWID,
		account.ExpiresAt,
		account.IsActive,
		account.CreatedAt,
	)
	if err != nil {
		return nil, database.MapSQLiteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading inserted account id: %w", err)
	}

	created := *account
	created.ID = id
	return &created, nil
}

// List returns all accounts, newest creation first.
func (r *AccountRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id DESC`

	rows, err := r.db.SQL.QueryContext(ctx, query)
	if err != nil {
		return nil, database.MapSQLiteError(err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return accounts, nil
}

// BindHWID pins a hardware id to an account that has none yet. The
// WHERE clause keeps the pin one-time even under concurrent logins:
// a second writer with the same fresh id is a no-op.
func (r *AccountRepository) BindHWID(ctx context.Context, id int64, hwid string) error {
	query := `UPDATE accounts SET hwid = ? WHERE id = ? AND hwid IS NULL`

	_, err := r.db.SQL.ExecContext(ctx, query, hwid, id)
	return database.MapSQLiteError(err)
}
