package services_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rulix/auth-api/internal/auth"
	"github.com/rulix/auth-api/internal/models"
	"github.com/rulix/auth-api/internal/services"
	pkgauth "github.com/rulix/auth-api/pkg/auth"
	pkglogger "github.com/rulix/auth-api/pkg/logger"
)

const testSecret = "test-secret-32-characters-long!"

// MockAccountRepository implements AccountRepository for testing
type MockAccountRepository struct {
	accounts map[string]*models.Account
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*models.Account)}
}

func (m *MockAccountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	account, ok := m.accounts[username]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *MockAccountRepository) BindHWID(ctx context.Context, id int64, hwid string) error {
	for _, account := range m.accounts {
		if account.ID == id && account.HWID == "" {
			account.HWID = hwid
		}
	}
	return nil
}

func (m *MockAccountRepository) add(account *models.Account) {
	m.accounts[account.Username] = account
}

// MockAuditRepository implements LoginAuditRepository for testing
type MockAuditRepository struct {
	attempts []*models.LoginAttempt
}

func (m *MockAuditRepository) RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error {
	m.attempts = append(m.attempts, attempt)
	return nil
}

type authFixture struct {
	service  *services.AuthService
	accounts *MockAccountRepository
	audit    *MockAuditRepository
	limiter  *services.RateLimitService
	verifier *auth.SignatureVerifier
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	accounts := NewMockAccountRepository()
	audit := &MockAuditRepository{}
	limiter := services.NewRateLimitService(services.DefaultRateLimitConfig(), logger)
	verifier := auth.NewSignatureVerifier(testSecret)

	return &authFixture{
		service:  services.NewAuthService(accounts, audit, limiter, verifier, logger, pkglogger.NewAuditLogger(logger)),
		accounts: accounts,
		audit:    audit,
		limiter:  limiter,
		verifier: verifier,
	}
}

func (f *authFixture) addAccount(username, password, hwid string, expiresAt time.Time, active bool) {
	f.accounts.add(&models.Account{
		ID:           int64(len(f.accounts.accounts) + 1),
		Username:     username,
		PasswordHash: pkgauth.HashPasswordSHA256(password),
		LicenseKey:   "RULIX-TESTKEY1",
		HWID:         hwid,
		ExpiresAt:    expiresAt,
		IsActive:     active,
		CreatedAt:    time.Now(),
	})
}

func (f *authFixture) signedInput(username, password, hwid, ip string) services.LoginInput {
	return services.LoginInput{
		Username:  username,
		Password:  password,
		HWID:      hwid,
		Signature: f.verifier.Sign(auth.LoginPayload(username, password, hwid)),
		IPAddress: ip,
	}
}

func TestAuthServiceLogin_Success(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), true)

	result, err := f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "1.2.3.4"))

	require.NoError(t, err)
	assert.Equal(t, "alice", result.Username)
	assert.Equal(t, "RULIX-TESTKEY1", result.LicenseKey)
	assert.NotEmpty(t, result.SessionToken)

	require.Len(t, f.audit.attempts, 1)
	assert.True(t, f.audit.attempts[0].Success)
	assert.Equal(t, "H1", f.audit.attempts[0].HWID)
	assert.Equal(t, "1.2.3.4", f.audit.attempts[0].IPAddress)
}

func TestAuthServiceLogin_MissingFields(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Login(context.Background(), services.LoginInput{
		Username:  "alice",
		Password:  "",
		HWID:      "H1",
		Signature: "x",
		IPAddress: "1.2.3.4",
	})

	assert.ErrorIs(t, err, models.ErrMissingFields)
	assert.Empty(t, f.audit.attempts, "pre-signature rejections are not audited")
}

func TestAuthServiceLogin_InvalidSignature(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), true)

	in := f.signedInput("alice", "pw1", "H1", "1.2.3.4")
	in.Signature = "deadbeef"

	_, err := f.service.Login(context.Background(), in)

	assert.ErrorIs(t, err, models.ErrInvalidSignature)
	assert.Empty(t, f.audit.attempts)
	assert.Empty(t, f.accounts.accounts["alice"].HWID, "no state change on forged request")
}

func TestAuthServiceLogin_UnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), true)

	_, errGhost := f.service.Login(context.Background(), f.signedInput("ghost", "pw1", "H1", "1.2.3.4"))
	_, errWrongPw := f.service.Login(context.Background(), f.signedInput("alice", "nope", "H1", "1.2.3.4"))

	assert.ErrorIs(t, errGhost, models.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, models.ErrInvalidCredentials)
	assert.Equal(t, errGhost, errWrongPw)

	require.Len(t, f.audit.attempts, 2)
	for _, attempt := range f.audit.attempts {
		assert.False(t, attempt.Success)
		require.NotNil(t, attempt.FailureReason)
		assert.Equal(t, models.FailureReasonInvalidCredentials, *attempt.FailureReason)
	}
}

func TestAuthServiceLogin_DisabledAccount(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), false)

	_, err := f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "1.2.3.4"))

	assert.ErrorIs(t, err, models.ErrAccountDisabled)
	require.Len(t, f.audit.attempts, 1)
	assert.Equal(t, models.FailureReasonAccountDisabled, *f.audit.attempts[0].FailureReason)
}

func TestAuthServiceLogin_ExpiredLicense(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "H1", time.Now().Add(-time.Hour), true)

	_, err := f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "1.2.3.4"))

	assert.ErrorIs(t, err, models.ErrLicenseExpired)
	require.Len(t, f.audit.attempts, 1)
	assert.Equal(t, models.FailureReasonLicenseExpired, *f.audit.attempts[0].FailureReason)
}

func TestAuthServiceLogin_PinsHWIDOnFirstLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), true)

	_, err := f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "1.2.3.4"))
	require.NoError(t, err)

	assert.Equal(t, "H1", f.accounts.accounts["alice"].HWID)

	// Same device keeps working
	_, err = f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "1.2.3.4"))
	assert.NoError(t, err)

	// Any other device is rejected even with correct credentials
	_, err = f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H2", "1.2.3.4"))
	assert.ErrorIs(t, err, models.ErrHWIDMismatch)
	assert.Equal(t, "H1", f.accounts.accounts["alice"].HWID, "binding is immutable")
}

func TestAuthServiceLogin_RateLimitBlocksSixthAttempt(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), true)

	for i := 0; i < 5; i++ {
		_, err := f.service.Login(context.Background(), f.signedInput("alice", "nope", "H1", "9.9.9.9"))
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	}

	// Sixth attempt is blocked regardless of credential correctness
	_, err := f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "9.9.9.9"))

	var rateErr *models.RateLimitedError
	require.ErrorAs(t, err, &rateErr)
	assert.Greater(t, rateErr.RetryAfter, time.Duration(0))
}

func TestAuthServiceLogin_SuccessClearsFailureCounter(t *testing.T) {
	f := newAuthFixture(t)
	f.addAccount("alice", "pw1", "", time.Now().Add(24*time.Hour), true)

	for i := 0; i < 4; i++ {
		_, _ = f.service.Login(context.Background(), f.signedInput("alice", "nope", "H1", "9.9.9.9"))
	}

	_, err := f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "9.9.9.9"))
	require.NoError(t, err)

	// The counter restarts from zero: five more failures are needed
	for i := 0; i < 5; i++ {
		_, err := f.service.Login(context.Background(), f.signedInput("alice", "nope", "H1", "9.9.9.9"))
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	}
}

func TestAuthServiceLogin_BcryptAccountsAuthenticate(t *testing.T) {
	f := newAuthFixture(t)

	hash, err := pkgauth.HashPassword("pw1", pkgauth.SchemeBcrypt)
	require.NoError(t, err)
	f.accounts.add(&models.Account{
		ID:           1,
		Username:     "alice",
		PasswordHash: hash,
		LicenseKey:   "RULIX-TESTKEY1",
		ExpiresAt:    time.Now().Add(24 * time.Hour),
		IsActive:     true,
	})

	_, err = f.service.Login(context.Background(), f.signedInput("alice", "pw1", "H1", "1.2.3.4"))
	assert.NoError(t, err)
}
