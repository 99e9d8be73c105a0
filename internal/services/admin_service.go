package services

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rulix/auth-api/internal/models"
	pkgauth "github.com/rulix/auth-api/pkg/auth"
	pkglogger "github.com/rulix/auth-api/pkg/logger"
)

const DefaultLicenseDays = 30

// AdminAccountRepository is the subset of account store operations the
// provisioning surface needs.
type AdminAccountRepository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
}

// AdminService handles the privileged provisioning operations, gated by
// possession of the administrative shared secret.
type AdminService struct {
	accounts       AdminAccountRepository
	adminToken     []byte
	passwordScheme string
	logger         *slog.Logger
	auditLogger    *pkglogger.AuditLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	accounts AdminAccountRepository,
	adminToken string,
	passwordScheme string,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AdminService {
	return &AdminService{
		accounts:       accounts,
		adminToken:     []byte(adminToken),
		passwordScheme: passwordScheme,
		logger:         logger,
		auditLogger:    auditLogger,
	}
}

// CreateAccountInput carries a provisioning request
type CreateAccountInput struct {
	Token        string
	Username     string
	Password     string
	DurationDays int
	LicenseKey   string
}

// CreateAccount provisions a new license account. DurationDays defaults
// to 30; LicenseKey is generated when absent. Duplicate usernames are
// surfaced by the storage uniqueness constraint, not a pre-check.
func (s *AdminService) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if !s.tokenValid(in.Token) {
		s.logger.Warn("provisioning rejected: bad admin token")
		return nil, models.ErrInvalidAdminToken
	}

	if in.Username == "" || in.Password == "" {
		return nil, models.ErrMissingFields
	}

	days := in.DurationDays
	if days <= 0 {
		days = DefaultLicenseDays
	}

	licenseKey := in.LicenseKey
	if licenseKey == "" {
		key, err := generateLicenseKey()
		if err != nil {
			s.logger.Error("failed to generate license key", slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		licenseKey = key
	}

	passwordHash, err := pkgauth.HashPassword(in.Password, s.passwordScheme)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	account := &models.Account{
		Username:     in.Username,
		PasswordHash: passwordHash,
		LicenseKey:   licenseKey,
		ExpiresAt:    time.Now().UTC().AddDate(0, 0, days),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Info("provisioning rejected: duplicate username",
				slog.String("username", in.Username))
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("account provisioned",
		slog.String("username", created.Username),
		slog.Time("expires_at", created.ExpiresAt))
	s.auditLogger.LogAccountAction("account_created", created.Username, map[string]string{
		"license_key": created.LicenseKey,
		"expires_at":  created.ExpiresAt.Format(time.RFC3339),
	})

	return created, nil
}

// ListAccounts returns account summaries, newest creation first
func (s *AdminService) ListAccounts(ctx context.Context, token string) ([]*models.Account, error) {
	if !s.tokenValid(token) {
		s.logger.Warn("account listing rejected: bad admin token")
		return nil, models.ErrInvalidAdminToken
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list accounts", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return accounts, nil
}

// CheckToken verifies the administrative shared secret without touching
// any account state. Handlers call it before field validation so an
// unauthorized caller always sees the token rejection first.
func (s *AdminService) CheckToken(token string) error {
	if !s.tokenValid(token) {
		return models.ErrInvalidAdminToken
	}
	return nil
}

func (s *AdminService) tokenValid(token string) bool {
	return hmac.Equal(s.adminToken, []byte(token))
}

// generateLicenseKey issues an opaque license token in the format the
// client fleet expects: the RULIX prefix and a random block.
func generateLicenseKey() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate license key: %w", err)
	}
	block := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(bytes)
	return "RULIX-" + block, nil
}
