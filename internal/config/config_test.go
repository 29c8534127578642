package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lacasita/internal/models"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("LACASITA_TEST_TOKEN", "test_token")
	yamlContent := `
telegram:
  bot_token: "${LACASITA_TEST_TOKEN}"
backend:
  base_url: "http://localhost:3000"
  timeout: 15s
  rate_limit:
    rps: 2
database:
  path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Telegram.BotToken != "test_token" {
		t.Errorf("expected bot_token test_token, got %s", cfg.Telegram.BotToken)
	}
	if cfg.Backend.Timeout.Std() != 15*time.Second {
		t.Errorf("expected timeout 15s, got %s", cfg.Backend.Timeout.Std())
	}
	if cfg.Backend.RateLimit.Burst != 1 {
		t.Errorf("expected default burst 1, got %d", cfg.Backend.RateLimit.Burst)
	}
	if err := cfg.ValidateForBot(); err != nil {
		t.Errorf("expected bot config to be valid: %v", err)
	}
}

func TestLoadConfigBadDuration(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("backend:\n  timeout: soon\n"), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		bot     bool
		wantErr bool
	}{
		{
			name: "valid config",
			cfg:  Config{Backend: BackendConfig{BaseURL: DefaultBackendURL}},
		},
		{
			name:    "relative url",
			cfg:     Config{Backend: BackendConfig{BaseURL: "/api"}},
			wantErr: true,
		},
		{
			name:    "ftp url",
			cfg:     Config{Backend: BackendConfig{BaseURL: "ftp://example.com"}},
			wantErr: true,
		},
		{
			name:    "negative rps",
			cfg:     Config{Backend: BackendConfig{BaseURL: DefaultBackendURL, RateLimit: RateLimitConfig{RPS: -1}}},
			wantErr: true,
		},
		{
			name:    "bot without token",
			cfg:     Config{Backend: BackendConfig{BaseURL: DefaultBackendURL}},
			bot:     true,
			wantErr: true,
		},
		{
			name: "bot with token",
			cfg: Config{
				Telegram: TelegramConfig{BotToken: "token"},
				Backend:  BackendConfig{BaseURL: DefaultBackendURL},
			},
			bot: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validate := tt.cfg.Validate
			if tt.bot {
				validate = tt.cfg.ValidateForBot
			}
			err := validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Backend.BaseURL != DefaultBackendURL {
		t.Errorf("expected default backend url, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Bot.RateLimitMessages != models.RateLimitMessages {
		t.Errorf("expected default rate limit messages %d, got %d", models.RateLimitMessages, cfg.Bot.RateLimitMessages)
	}
	if cfg.Bot.StateTTL != models.DefaultStateTTL {
		t.Errorf("expected default state ttl %d, got %d", models.DefaultStateTTL, cfg.Bot.StateTTL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Errorf("expected no default timeout, got %s", cfg.Backend.Timeout.Std())
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backend.BaseURL != DefaultBackendURL {
		t.Errorf("expected default backend url, got %s", cfg.Backend.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid: %v", err)
	}
	if err := cfg.ValidateForBot(); err == nil {
		t.Errorf("expected missing bot token to fail")
	}
}
