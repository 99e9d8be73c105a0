package logger

import (
	"context"
	"log/slog"
	"time"
)

// AuditEvent represents a security audit event
type AuditEvent struct {
	EventType string
	Username  string
	HWID      string
	IPAddress string
	Success   bool
	Detail    string
}

// AuditLogger emits security-relevant events. Events carry identifying
// context (username, hwid, client address) but never payloads, password
// material, or secrets.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogLoginEvent logs the outcome of a login authorization attempt
func (al *AuditLogger) LogLoginEvent(event AuditEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.Username != "" {
		attrs = append(attrs, slog.String("username", event.Username))
	}
	if event.HWID != "" {
		attrs = append(attrs, slog.String("hwid", event.HWID))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.Detail != "" {
		attrs = append(attrs, slog.String("detail", event.Detail))
	}

	if event.Success {
		al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
	} else {
		al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit", attrs...)
	}
}

// LogInvalidSignature logs a request that failed HMAC verification
func (al *AuditLogger) LogInvalidSignature(ipAddress, username, hwid string) {
	al.LogLoginEvent(AuditEvent{
		EventType: "invalid_signature",
		Username:  username,
		HWID:      hwid,
		IPAddress: ipAddress,
	})
}

// LogHWIDMismatch logs a login rejected because the presented hardware
// id differs from the pinned one.
func (al *AuditLogger) LogHWIDMismatch(username, expected, received string) {
	attrs := []slog.Attr{
		slog.String("audit_type", "auth"),
		slog.String("event_type", "hwid_mismatch"),
		slog.Bool("success", false),
		slog.String("username", username),
		slog.String("expected_hwid", expected),
		slog.String("received_hwid", received),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit", attrs...)
}

// LogAccountAction logs provisioning actions
func (al *AuditLogger) LogAccountAction(eventType, username string, metadata map[string]string) {
	attrs := []slog.Attr{
		slog.String("audit_type", "account"),
		slog.String("event_type", eventType),
		slog.String("username", username),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	for key, val := range metadata {
		attrs = append(attrs, slog.String(key, val))
	}

	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit", attrs...)
}
