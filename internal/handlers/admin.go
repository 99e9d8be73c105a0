package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rulix/auth-api/internal/models"
	"github.com/rulix/auth-api/internal/services"
	pkghttp "github.com/rulix/auth-api/pkg/http"
)

// AdminServiceInterface defines the provisioning contract
type AdminServiceInterface interface {
	CheckToken(token string) error
	CreateAccount(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	ListAccounts(ctx context.Context, token string) ([]*models.Account, error)
}

// AdminHandler handles the privileged provisioning endpoints
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreateUserRequest represents the request body for user creation.
// admin_token is checked before field validation so a bad token is
// always a 403, never a 400.
type CreateUserRequest struct {
	AdminToken   string `json:"admin_token"`
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"omitempty,gte=1"`
	LicenseKey   string `json:"license_key"`
}

// ListUsersRequest represents the request body for user listing
type ListUsersRequest struct {
	AdminToken string `json:"admin_token"`
}

// CreatedUserResponse is the user object returned on creation
type CreatedUserResponse struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	LicenseKey string `json:"license_key"`
	ExpiresAt  string `json:"expires_at"`
}

// CreateUserResponse is the success envelope for user creation
type CreateUserResponse struct {
	Success bool                `json:"success"`
	User    CreatedUserResponse `json:"user"`
}

// UserSummary is one entry in the user listing
type UserSummary struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	LicenseKey string `json:"license_key"`
	HWID       string `json:"hwid,omitempty"`
	ExpiresAt  string `json:"expires_at"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
}

// ListUsersResponse is the success envelope for user listing
type ListUsersResponse struct {
	Success bool          `json:"success"`
	Users   []UserSummary `json:"users"`
}

// CreateUser handles POST /api/admin/create_user
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Missing required fields")
		return
	}

	// Token gate first: an unauthorized caller learns nothing about
	// field validation.
	if err := h.service.CheckToken(req.AdminToken); err != nil {
		writeAdminError(w, err)
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "Missing required fields")
		return
	}

	account, err := h.service.CreateAccount(r.Context(), services.CreateAccountInput{
		Token:        req.AdminToken,
		Username:     req.Username,
		Password:     req.Password,
		DurationDays: req.DurationDays,
		LicenseKey:   req.LicenseKey,
	})
	if err != nil {
		writeAdminError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, CreateUserResponse{
		Success: true,
		User: CreatedUserResponse{
			ID:         account.ID,
			Username:   account.Username,
			LicenseKey: account.LicenseKey,
			ExpiresAt:  account.ExpiresAt.Format(time.RFC3339),
		},
	})
}

// ListUsers handles POST /api/admin/list_users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var req ListUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Missing required fields")
		return
	}

	accounts, err := h.service.ListAccounts(r.Context(), req.AdminToken)
	if err != nil {
		writeAdminError(w, err)
		return
	}

	users := make([]UserSummary, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, UserSummary{
			ID:         account.ID,
			Username:   account.Username,
			LicenseKey: account.LicenseKey,
			HWID:       account.HWID,
			ExpiresAt:  account.ExpiresAt.Format(time.RFC3339),
			IsActive:   account.IsActive,
			CreatedAt:  account.CreatedAt.Format(time.RFC3339),
		})
	}

	pkghttp.WriteJSON(w, http.StatusOK, ListUsersResponse{Success: true, Users: users})
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidAdminToken):
		pkghttp.WriteForbidden(w, "Invalid admin token")
	case errors.Is(err, models.ErrMissingFields):
		pkghttp.WriteBadRequest(w, "Missing required fields")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteBadRequest(w, "Username already exists")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}
