package models

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrInternalServer = errors.New("internal server error")

	// Login pipeline rejections
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrLicenseExpired     = errors.New("license expired")
	ErrHWIDMismatch       = errors.New("hwid mismatch")

	// Provisioning rejections
	ErrInvalidAdminToken = errors.New("invalid admin token")
)

// RateLimitedError is returned when a client address has exceeded the
// failure threshold. RetryAfter is the remaining lockout time.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %d seconds", int(e.RetryAfter.Seconds()))
}
