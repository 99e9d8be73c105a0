package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rulix/auth-api/internal/models"
	"github.com/rulix/auth-api/internal/services"
	pkghttp "github.com/rulix/auth-api/pkg/http"
)

// AuthServiceInterface defines the login pipeline contract
type AuthServiceInterface interface {
	Login(ctx context.Context, in services.LoginInput) (*services.LoginResult, error)
}

// AuthHandler handles the authentication endpoints
type AuthHandler struct {
	service  AuthServiceInterface
	ipConfig *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		ipConfig: ipConfig,
	}
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	HWID      string `json:"hwid"`
	Signature string `json:"signature"`
}

// LoginUserResponse is the user object returned on successful login
type LoginUserResponse struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	LicenseKey   string `json:"license_key"`
	ExpiresAt    string `json:"expires_at"`
	SessionToken string `json:"session_token"`
}

// LoginResponse is the success envelope for login
type LoginResponse struct {
	Success bool              `json:"success"`
	User    LoginUserResponse `json:"user"`
}

// VerifyResponse is the (stub) verify envelope
type VerifyResponse struct {
	Success bool `json:"success"`
	Valid   bool `json:"valid"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)

	// A body that fails to decode is treated the same as one with
	// missing fields; the service still runs the rate check first.
	var req LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	result, err := h.service.Login(r.Context(), services.LoginInput{
		Username:  req.Username,
		Password:  req.Password,
		HWID:      req.HWID,
		Signature: req.Signature,
		IPAddress: ipAddress,
	})
	if err != nil {
		writeLoginError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		User: LoginUserResponse{
			UserID:       result.UserID,
			Username:     result.Username,
			LicenseKey:   result.LicenseKey,
			ExpiresAt:    result.ExpiresAt.Format(time.RFC3339),
			SessionToken: result.SessionToken,
		},
	})
}

// Verify handles POST /api/auth/verify. Session tokens are issued but
// not yet validated server-side, so this always reports valid.
//
// TODO: validate session_token and hwid once tokens are persisted.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteJSON(w, http.StatusOK, VerifyResponse{Success: true, Valid: true})
}

// writeLoginError is the single translator from pipeline errors to the
// wire format. Internal detail never reaches the client.
func writeLoginError(w http.ResponseWriter, err error) {
	var rateErr *models.RateLimitedError
	if errors.As(err, &rateErr) {
		seconds := int(rateErr.RetryAfter.Seconds())
		pkghttp.WriteTooManyRequests(w, fmt.Sprintf("Too many attempts. Try again in %d seconds", seconds))
		return
	}

	switch {
	case errors.Is(err, models.ErrMissingFields):
		pkghttp.WriteBadRequest(w, "Missing required fields")
	case errors.Is(err, models.ErrInvalidSignature):
		pkghttp.WriteForbidden(w, "Invalid signature")
	case errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Invalid credentials")
	case errors.Is(err, models.ErrAccountDisabled):
		pkghttp.WriteForbidden(w, "Account disabled")
	case errors.Is(err, models.ErrLicenseExpired):
		pkghttp.WriteForbidden(w, "License expired")
	case errors.Is(err, models.ErrHWIDMismatch):
		pkghttp.WriteForbidden(w, "HWID mismatch")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
