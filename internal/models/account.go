package models

import (
	"time"
)

// Account is a provisioned license account. HWID is empty until the
// first successful login pins it; after that it only changes through
// out-of-band administration.
type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	LicenseKey   string
	HWID         string
	ExpiresAt    time.Time
	IsActive     bool
	CreatedAt    time.Time
}
