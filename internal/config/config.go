package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
}

type DatabaseConfig struct {
	Path string
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	// TrustedProxies lists CIDR ranges whose X-Forwarded-For headers are
	// honored when resolving the client address for lockout tracking.
	TrustedProxies []string
}

type AuthConfig struct {
	// APISecret signs login requests (HMAC-SHA256 over the request payload).
	APISecret string
	// AdminToken gates the provisioning endpoints. Defaults to APISecret
	// so single-secret deployments keep working, but should be distinct.
	AdminToken string
	// PasswordScheme is the hash used for newly provisioned accounts:
	// "sha256" (legacy, interop with existing data) or "bcrypt".
	PasswordScheme string

	MaxLoginAttempts  int
	LockoutWindow     time.Duration
	RequestsPerMinute int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	apiSecret := getEnv("API_SECRET", "")
	if apiSecret == "" {
		return nil, fmt.Errorf("API_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "server_data/rulix_auth.db"),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "5000"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(),
			TrustedProxies: parseCSVEnv("TRUSTED_PROXIES"),
		},
		Auth: AuthConfig{
			APISecret:         apiSecret,
			AdminToken:        getEnv("ADMIN_TOKEN", apiSecret),
			PasswordScheme:    getEnv("PASSWORD_SCHEME", "sha256"),
			MaxLoginAttempts:  getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			LockoutWindow:     getEnvAsDuration("LOCKOUT_WINDOW", 300*time.Second),
			RequestsPerMinute: getEnvAsInt("REQUESTS_PER_MINUTE", 60),
		},
	}

	if err := validateSecret("API_SECRET", apiSecret, env); err != nil {
		return nil, err
	}
	if cfg.Auth.AdminToken != apiSecret {
		if err := validateSecret("ADMIN_TOKEN", cfg.Auth.AdminToken, env); err != nil {
			return nil, err
		}
	}

	switch cfg.Auth.PasswordScheme {
	case "sha256", "bcrypt":
	default:
		return nil, fmt.Errorf("PASSWORD_SCHEME must be sha256 or bcrypt (got %q)", cfg.Auth.PasswordScheme)
	}

	if cfg.Auth.MaxLoginAttempts < 1 {
		return nil, fmt.Errorf("MAX_LOGIN_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

// validateSecret enforces minimum security standards for shared secrets
func validateSecret(name, secret, env string) error {
	minLength := 16 // Development minimum
	if env == "production" {
		minLength = 32 // Production requires a stronger secret (256 bits)
	}

	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in %s environment (got %d)",
			name, minLength, env, len(secret))
	}

	// Check against common weak secrets
	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins() []string {
	// The API is consumed by native clients, not browsers, so CORS stays
	// permissive unless ALLOWED_ORIGINS narrows it.
	originsStr := getEnv("ALLOWED_ORIGINS", "*")
	origins := strings.Split(originsStr, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

func parseCSVEnv(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
