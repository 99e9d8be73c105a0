package services

import (
	"log/slog"
	"sync"
	"time"
)

// RateLimitConfig holds configuration for failure-based rate limiting
type RateLimitConfig struct {
	MaxAttempts   int           // failures before an address is blocked
	LockoutWindow time.Duration // sliding window measured from the last failure
}

// DefaultRateLimitConfig mirrors the deployed client expectations:
// 5 failures, 5 minute lockout.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:   5,
		LockoutWindow: 300 * time.Second,
	}
}

type failureEntry struct {
	count       int
	lastFailure time.Time
}

// RateLimitService tracks failed login attempts per client address in
// process memory. State is intentionally not persisted and resets on
// restart. Entries expire lazily at check time; an address that stops
// failing without ever succeeding leaves a stale entry behind (known
// leak in the current design, cleared only by a successful login).
//
// Safe for concurrent use.
type RateLimitService struct {
	mu      sync.Mutex
	entries map[string]failureEntry
	config  RateLimitConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewRateLimitService creates a new RateLimitService
func NewRateLimitService(config RateLimitConfig, logger *slog.Logger) *RateLimitService {
	return &RateLimitService{
		entries: make(map[string]failureEntry),
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// Check reports whether the address may attempt a login. When blocked,
// retryAfter is the remaining lockout time.
func (s *RateLimitService) Check(address string) (allowed bool, retryAfter time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[address]
	if !ok {
		return true, 0
	}

	elapsed := s.now().Sub(entry.lastFailure)
	if entry.count >= s.config.MaxAttempts && elapsed < s.config.LockoutWindow {
		remaining := s.config.LockoutWindow - elapsed
		s.logger.Warn("address rate limited",
			slog.String("ip_address", address),
			slog.Int("failed_attempts", entry.count),
			slog.Duration("retry_after", remaining))
		return false, remaining
	}

	return true, 0
}

// RecordFailure increments the failure count for an address
func (s *RateLimitService) RecordFailure(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[address]
	entry.count++
	entry.lastFailure = s.now()
	s.entries[address] = entry
}

// Clear deletes the failure entry for an address. Called on successful
// login so the next failure starts counting from one.
func (s *RateLimitService) Clear(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, address)
}

// SetClock overrides the time source. Test hook.
func (s *RateLimitService) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}
