package handlers

import (
	"context"
	"net/http"
	"time"

	pkghttp "github.com/rulix/auth-api/pkg/http"
)

// Version reported by the health endpoint; tracks the wire contract the
// client fleet checks against, not the build.
const Version = "2.0"

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse is the health endpoint body
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler handles GET /api/health
type HealthHandler struct {
	db HealthChecker
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports service status. Read-only: repeated calls never mutate
// state.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	status := "online"
	code := http.StatusOK

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.HealthCheck(ctx); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	pkghttp.WriteJSON(w, code, HealthResponse{
		Status:    status,
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
