package models

import "time"

// LoginAttempt is an append-only audit record of a login call that
// passed signature verification. Rejections before that point (rate
// limit, missing fields, bad signature) are never written here.
type LoginAttempt struct {
	ID            string
	Username      string
	Success       bool
	HWID          string
	IPAddress     string
	FailureReason *string
	AttemptTime   time.Time
}

// Failure reasons recorded on audit rows.
const (
	FailureReasonInvalidCredentials = "invalid_credentials"
	FailureReasonAccountDisabled    = "account_disabled"
	FailureReasonLicenseExpired     = "license_expired"
	FailureReasonHWIDMismatch       = "hwid_mismatch"
)
