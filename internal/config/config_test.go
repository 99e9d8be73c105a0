package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-32-characters-long!")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != "5000" {
		t.Errorf("Port: got %v, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Path != "server_data/rulix_auth.db" {
		t.Errorf("Database.Path: got %v", cfg.Database.Path)
	}
	if cfg.Auth.MaxLoginAttempts != 5 {
		t.Errorf("MaxLoginAttempts: got %v, want 5", cfg.Auth.MaxLoginAttempts)
	}
	if cfg.Auth.LockoutWindow != 300*time.Second {
		t.Errorf("LockoutWindow: got %v, want 300s", cfg.Auth.LockoutWindow)
	}
	if cfg.Auth.PasswordScheme != "sha256" {
		t.Errorf("PasswordScheme: got %v, want sha256", cfg.Auth.PasswordScheme)
	}
}

func TestLoad_AdminTokenDefaultsToAPISecret(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-32-characters-long!")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.AdminToken != cfg.Auth.APISecret {
		t.Errorf("AdminToken should default to APISecret, got %v", cfg.Auth.AdminToken)
	}
}

func TestLoad_DistinctAdminToken(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-32-characters-long!")
	os.Setenv("ADMIN_TOKEN", "admin-token-32-characters-long!!")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.AdminToken == cfg.Auth.APISecret {
		t.Error("AdminToken should be distinct when ADMIN_TOKEN is set")
	}
}

func TestLoad_MissingAPISecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with no API_SECRET should fail")
	}
}

func TestLoad_ShortSecretRejected(t *testing.T) {
	os.Setenv("API_SECRET", "short")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with a short secret should fail")
	}
}

func TestLoad_WeakProductionSecretRejected(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-16-chars-but-ok-dev!")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	// 32 chars is fine in production
	if _, err := Load(); err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	os.Setenv("API_SECRET", "only-20-characters!!")
	if _, err := Load(); err == nil {
		t.Fatal("Load() with a sub-32-char secret in production should fail")
	}
}

func TestLoad_InvalidPasswordScheme(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-32-characters-long!")
	os.Setenv("PASSWORD_SCHEME", "md5")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with an unknown PASSWORD_SCHEME should fail")
	}
}

func TestLoad_CustomRateLimitSettings(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-32-characters-long!")
	os.Setenv("MAX_LOGIN_ATTEMPTS", "3")
	os.Setenv("LOCKOUT_WINDOW", "10m")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.MaxLoginAttempts != 3 {
		t.Errorf("MaxLoginAttempts: got %v, want 3", cfg.Auth.MaxLoginAttempts)
	}
	if cfg.Auth.LockoutWindow != 10*time.Minute {
		t.Errorf("LockoutWindow: got %v, want 10m", cfg.Auth.LockoutWindow)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	os.Setenv("API_SECRET", "test-secret-32-characters-long!")
	os.Setenv("LOCKOUT_WINDOW", "not-a-duration")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.LockoutWindow != 300*time.Second {
		t.Errorf("LockoutWindow with invalid value: got %v, want 300s", cfg.Auth.LockoutWindow)
	}
}
