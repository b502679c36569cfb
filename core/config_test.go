package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"CONFIG_FILE", "PORT", "SECRET_KEY", "TOKEN_TTL_MINUTES", "LOG_DIR", "DATABASE_URL", "POSTGRES_URL", "ALLOWED_ORIGINS"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadRequiresSecretKey(t *testing.T) {
	clearConfigEnv(t)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without SECRET_KEY")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("SECRET_KEY", "s3cr3t")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("unexpected port: %q", cfg.Port)
	}
	if cfg.TokenTTL != 60*time.Minute {
		t.Fatalf("unexpected ttl: %v", cfg.TokenTTL)
	}
	if cfg.SecretKey != "s3cr3t" {
		t.Fatalf("unexpected secret: %q", cfg.SecretKey)
	}
}

func TestLoadYAMLFileWithEnvOverride(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9000\"\nsecret_key: from-file\ntoken_ttl_minutes: 15\nallowed_origins:\n  - http://localhost:19006\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SECRET_KEY", "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("file port not applied: %q", cfg.Port)
	}
	if cfg.SecretKey != "from-env" {
		t.Fatalf("env should override file, got %q", cfg.SecretKey)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Fatalf("file ttl not applied: %v", cfg.TokenTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:19006" {
		t.Fatalf("file origins not applied: %v", cfg.AllowedOrigins)
	}
}
