package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"lacasita/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultBackendURL = "https://lacasitabooking.onrender.com"

type Config struct {
	App        AppConfig        `yaml:"app"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Backend    BackendConfig    `yaml:"backend"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	Bot        BotConfig        `yaml:"bot"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	Debug    bool   `yaml:"debug"`
}

type BackendConfig struct {
	BaseURL   string          `yaml:"base_url"`
	Timeout   Duration        `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type BotConfig struct {
	RateLimitMessages int `yaml:"rate_limit_messages"`
	RateLimitWindow   int `yaml:"rate_limit_window"`
	StateTTL          int `yaml:"state_ttl"`
}

// Duration reads "30s"-style values from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Value == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads an optional .env file and the YAML config at configPath.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Default returns a config with every default applied, for running without a file.
func Default() *Config {
	var config Config
	config.applyDefaults()
	return &config
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend base_url %q must be an absolute http(s) URL", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 {
		return errors.New("backend timeout must not be negative")
	}
	if c.Backend.RateLimit.RPS < 0 {
		return errors.New("backend rate_limit.rps must not be negative")
	}
	return nil
}

// ValidateForBot adds the checks only the Telegram host needs.
func (c *Config) ValidateForBot() error {
	if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		return errors.New("telegram bot token is required")
	}
	return c.Validate()
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "lacasita-booking"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = DefaultBackendURL
	}
	if c.Backend.RateLimit.RPS > 0 && c.Backend.RateLimit.Burst == 0 {
		c.Backend.RateLimit.Burst = 1
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	// Bot defaults
	if c.Bot.RateLimitMessages == 0 {
		c.Bot.RateLimitMessages = models.RateLimitMessages
	}
	if c.Bot.RateLimitWindow == 0 {
		c.Bot.RateLimitWindow = models.RateLimitWindow
	}
	if c.Bot.StateTTL == 0 {
		c.Bot.StateTTL = models.DefaultStateTTL
	}
}
