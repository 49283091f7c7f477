package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDotEnv(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	return path
}

func unsetAll(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unset %s: %v", k, err)
		}
	}
}

func TestLoadFrom_DefaultsWithoutDotEnv(t *testing.T) {
	unsetAll(t, "APP_ENV", "PORT", "DB_PATH", "DEFAULT_MARKETPLACE", "DEFAULT_REFERRAL_RATE", "ADMIN_EMAIL", "ADMIN_PASSWORD", "SESSION_SECRET")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" || cfg.DBPath != "./dev.db" || cfg.DefaultMarketplace != "US" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DefaultReferralRate != 0.15 {
		t.Fatalf("DefaultReferralRate = %v, want 0.15", cfg.DefaultReferralRate)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev mode by default")
	}
	if len(cfg.Warnings()) != 3 {
		t.Fatalf("expected 3 warnings, got %v", cfg.Warnings())
	}
}

func TestLoadFrom_DotEnvValuesAndIgnoresNoise(t *testing.T) {
	unsetAll(t, "APP_ENV", "PORT", "SESSION_SECRET", "DEFAULT_MARKETPLACE")

	path := writeDotEnv(t, `
# comment

APP_ENV=prod
export PORT=9090
SESSION_SECRET="s3cret"
DEFAULT_MARKETPLACE='BR'
`)

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.IsDev() {
		t.Fatalf("expected prod env")
	}
	if cfg.Port != "9090" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "9090")
	}
	if cfg.SessionSecret != "s3cret" {
		t.Fatalf("SessionSecret=%q, want %q", cfg.SessionSecret, "s3cret")
	}
	if cfg.DefaultMarketplace != "BR" {
		t.Fatalf("DefaultMarketplace=%q, want %q", cfg.DefaultMarketplace, "BR")
	}
}

func TestLoadFrom_DoesNotOverwriteExistingEnv(t *testing.T) {
	t.Setenv("PORT", "7000")

	path := writeDotEnv(t, "PORT=9090\n")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Port != "7000" {
		t.Fatalf("Port=%q, want %q", cfg.Port, "7000")
	}
}

func TestLoadFrom_RejectsReferralRateOutOfRange(t *testing.T) {
	t.Setenv("DEFAULT_REFERRAL_RATE", "1.2")

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected out of range rate to be rejected")
	}
}

func TestLoadFrom_RequiresSessionSecretOutsideDev(t *testing.T) {
	unsetAll(t, "APP_ENV", "SESSION_SECRET")
	t.Setenv("APP_ENV", "prod")

	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("expected missing SESSION_SECRET to be rejected in prod")
	}

	t.Setenv("SESSION_SECRET", "s3cret")
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
}
