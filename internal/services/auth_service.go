package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rulix/auth-api/internal/auth"
	"github.com/rulix/auth-api/internal/models"
	pkgauth "github.com/rulix/auth-api/pkg/auth"
	pkglogger "github.com/rulix/auth-api/pkg/logger"
)

// AccountRepository defines the account store operations the login
// pipeline needs.
type AccountRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	BindHWID(ctx context.Context, id int64, hwid string) error
}

// LoginAuditRepository defines the append-only audit trail operations
type LoginAuditRepository interface {
	RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error
}

// AuthService orchestrates the login authorization pipeline
type AuthService struct {
	accounts    AccountRepository
	attempts    LoginAuditRepository
	limiter     *RateLimitService
	verifier    *auth.SignatureVerifier
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	accounts AccountRepository,
	attempts LoginAuditRepository,
	limiter *RateLimitService,
	verifier *auth.SignatureVerifier,
	logger *slog.Logger,
	auditLogger *pkglogger.AuditLogger,
) *AuthService {
	return &AuthService{
		accounts:    accounts,
		attempts:    attempts,
		limiter:     limiter,
		verifier:    verifier,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// LoginInput carries one login request through the pipeline
type LoginInput struct {
	Username  string
	Password  string
	HWID      string
	Signature string
	IPAddress string
}

// LoginResult is the successful outcome of a login
type LoginResult struct {
	UserID       int64
	Username     string
	LicenseKey   string
	ExpiresAt    time.Time
	SessionToken string
}

// Login runs the authorization sequence. Each step short-circuits to a
// terminal rejection; there are no internal retries. Audit rows are
// written for every outcome past signature verification; earlier
// rejections only feed the failure limiter.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	// 1. Rate check
	allowed, retryAfter := s.limiter.Check(in.IPAddress)
	if !allowed {
		return nil, &models.RateLimitedError{RetryAfter: retryAfter}
	}

	// 2. Field presence
	if in.Username == "" || in.Password == "" || in.HWID == "" || in.Signature == "" {
		s.limiter.RecordFailure(in.IPAddress)
		return nil, models.ErrMissingFields
	}

	// 3. Request signature
	payload := auth.LoginPayload(in.Username, in.Password, in.HWID)
	if !s.verifier.Verify(payload, in.Signature) {
		s.limiter.RecordFailure(in.IPAddress)
		s.auditLogger.LogInvalidSignature(in.IPAddress, in.Username, in.HWID)
		return nil, models.ErrInvalidSignature
	}

	// 4. Credential lookup. Unknown username and wrong password are
	// indistinguishable to the caller.
	account, err := s.accounts.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, s.rejectCredentials(ctx, in)
		}
		s.logger.Error("failed to look up account", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(account.PasswordHash, in.Password); err != nil {
		return nil, s.rejectCredentials(ctx, in)
	}

	// 5. Active flag
	if !account.IsActive {
		s.limiter.RecordFailure(in.IPAddress)
		s.recordAttempt(ctx, in, false, models.FailureReasonAccountDisabled)
		s.logger.Info("login blocked: account disabled", slog.String("username", in.Username))
		return nil, models.ErrAccountDisabled
	}

	// 6. License expiry
	if time.Now().After(account.ExpiresAt) {
		s.limiter.RecordFailure(in.IPAddress)
		s.recordAttempt(ctx, in, false, models.FailureReasonLicenseExpired)
		s.logger.Info("login blocked: license expired",
			slog.String("username", in.Username),
			slog.Time("expires_at", account.ExpiresAt))
		return nil, models.ErrLicenseExpired
	}

	// 7. Hardware binding: pin on first use, reject any other id after
	if account.HWID != "" && account.HWID != in.HWID {
		s.limiter.RecordFailure(in.IPAddress)
		s.recordAttempt(ctx, in, false, models.FailureReasonHWIDMismatch)
		s.auditLogger.LogHWIDMismatch(in.Username, account.HWID, in.HWID)
		return nil, models.ErrHWIDMismatch
	}

	if account.HWID == "" {
		if err := s.accounts.BindHWID(ctx, account.ID, in.HWID); err != nil {
			s.logger.Error("failed to bind hwid",
				slog.String("username", in.Username),
				slog.Any("error", err))
			return nil, models.ErrInternalServer
		}
		s.logger.Info("hwid pinned",
			slog.String("username", in.Username),
			slog.String("hwid", in.HWID))
	}

	// 8. Success: audit, reset the failure counter, issue a token
	s.recordAttempt(ctx, in, true, "")
	s.limiter.Clear(in.IPAddress)

	token, err := auth.GenerateSessionToken()
	if err != nil {
		s.logger.Error("failed to generate session token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("login succeeded", slog.String("username", in.Username))
	s.auditLogger.LogLoginEvent(pkglogger.AuditEvent{
		EventType: "login_success",
		Username:  in.Username,
		HWID:      in.HWID,
		IPAddress: in.IPAddress,
		Success:   true,
	})

	return &LoginResult{
		UserID:       account.ID,
		Username:     account.Username,
		LicenseKey:   account.LicenseKey,
		ExpiresAt:    account.ExpiresAt,
		SessionToken: token,
	}, nil
}

// rejectCredentials handles step 4 failures uniformly
func (s *AuthService) rejectCredentials(ctx context.Context, in LoginInput) error {
	s.limiter.RecordFailure(in.IPAddress)
	s.recordAttempt(ctx, in, false, models.FailureReasonInvalidCredentials)
	s.logger.Info("login failed: invalid credentials")
	return models.ErrInvalidCredentials
}

// recordAttempt appends to the audit trail. Audit write failures are
// logged but never fail the login call itself.
func (s *AuthService) recordAttempt(ctx context.Context, in LoginInput, success bool, failureReason string) {
	attempt := &models.LoginAttempt{
		Username:  in.Username,
		Success:   success,
		HWID:      in.HWID,
		IPAddress: in.IPAddress,
	}
	if failureReason != "" {
		attempt.FailureReason = &failureReason
	}

	if err := s.attempts.RecordAttempt(ctx, attempt); err != nil {
		s.logger.Error("failed to record login attempt",
			slog.String("username", in.Username),
			slog.Any("error", err))
	}
}
