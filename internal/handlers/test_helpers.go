package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rulix/auth-api/internal/models"
	"github.com/rulix/auth-api/internal/services"
	pkghttp "github.com/rulix/auth-api/pkg/http"

	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is the standard error envelope
// with the exact client-facing message
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.False(t, resp.Success, "Error envelope should have success=false")
	assert.Equal(t, expectedError, resp.Error, "Error message mismatch")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc func(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)

	// LoginCalls records every input the handler passed through
	LoginCalls []services.LoginInput
}

func (m *MockAuthService) Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error) {
	m.LoginCalls = append(m.LoginCalls, in)
	if m.LoginFunc == nil {
		return nil, models.ErrInvalidCredentials
	}
	return m.LoginFunc(ctx, in)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	CheckTokenFunc    func(token string) error
	CreateAccountFunc func(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	ListAccountsFunc  func(ctx context.Context, token string) ([]*models.Account, error)
}

func (m *MockAdminService) CheckToken(token string) error {
	if m.CheckTokenFunc == nil {
		return nil
	}
	return m.CheckTokenFunc(token)
}

func (m *MockAdminService) CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error) {
	if m.CreateAccountFunc == nil {
		return nil, models.ErrInvalidAdminToken
	}
	return m.CreateAccountFunc(ctx, in)
}

func (m *MockAdminService) ListAccounts(ctx context.Context, token string) ([]*models.Account, error) {
	if m.ListAccountsFunc == nil {
		return nil, models.ErrInvalidAdminToken
	}
	return m.ListAccountsFunc(ctx, token)
}
