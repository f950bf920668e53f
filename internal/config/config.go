package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server struct {
		Port         int           `yaml:"port" env:"SERVER_PORT"`
		ReadTimeout  time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout  time.Duration `yaml:"idleTimeout" env:"SERVER_IDLE_TIMEOUT"`
	} `yaml:"server"`

	AI struct {
		Provider     string `yaml:"provider" env:"AI_PROVIDER"`
		Model        string `yaml:"model" env:"AI_MODEL"`
		GeminiAPIKey string `yaml:"geminiApiKey" env:"GEMINI_API_KEY"`
		OpenAIAPIKey string `yaml:"openaiApiKey" env:"OPENAI_API_KEY"`
		OpenAIBase   string `yaml:"openaiBaseUrl" env:"OPENAI_BASE_URL"`
	} `yaml:"ai"`

	Image struct {
		MaxUploadBytes int64 `yaml:"maxUploadBytes" env:"IMAGE_MAX_UPLOAD_BYTES"`
		MaxDimension   int   `yaml:"maxDimension" env:"IMAGE_MAX_DIMENSION"`
		JPEGQuality    int   `yaml:"jpegQuality" env:"IMAGE_JPEG_QUALITY"`
	} `yaml:"image"`

	Session struct {
		TTL        time.Duration `yaml:"ttl" env:"SESSION_TTL"`
		CookieName string        `yaml:"cookieName" env:"SESSION_COOKIE_NAME"`
		Secure     bool          `yaml:"secure" env:"SESSION_COOKIE_SECURE"`
	} `yaml:"session"`

	RateLimit struct {
		Capacity   int `yaml:"capacity" env:"RATE_LIMIT_CAPACITY"`
		RefillRate int `yaml:"refillPerMinute" env:"RATE_LIMIT_REFILL_PER_MINUTE"`
	} `yaml:"rateLimit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	} `yaml:"cors"`

	Log struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"log"`

	Archive struct {
		Enabled    bool   `yaml:"enabled" env:"ARCHIVE_ENABLED"`
		Endpoint   string `yaml:"endpoint" env:"ARCHIVE_ENDPOINT"`
		AccessKey  string `yaml:"accessKey" env:"ARCHIVE_ACCESS_KEY"`
		SecretKey  string `yaml:"secretKey" env:"ARCHIVE_SECRET_KEY"`
		BucketName string `yaml:"bucketName" env:"ARCHIVE_BUCKET"`
		Region     string `yaml:"region" env:"ARCHIVE_REGION"`
		UseSSL     bool   `yaml:"useSSL" env:"ARCHIVE_USE_SSL"`
	} `yaml:"archive"`
}

// ConfigError reports a setting the service cannot start without.
type ConfigError struct {
	Key  string
	Hint string
}

func (e *ConfigError) Error() string {
	if e.Hint == "" {
		return e.Key + " not found"
	}
	return fmt.Sprintf("%s not found! %s", e.Key, e.Hint)
}

// Defaults returns a config with every optional setting filled in.
func Defaults() *Config {
	var cfg Config
	cfg.Server.Port = 8501
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 120 * time.Second
	cfg.Server.IdleTimeout = 60 * time.Second
	cfg.AI.Provider = ProviderGemini
	cfg.Image.MaxUploadBytes = 10 * 1024 * 1024
	cfg.Image.JPEGQuality = 75
	cfg.Session.TTL = 24 * time.Hour
	cfg.Session.CookieName = "acne_session"
	cfg.RateLimit.Capacity = 5
	cfg.RateLimit.RefillRate = 10
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	cfg.Archive.BucketName = "acne-reports"
	return &cfg
}

// Load baca config: defaults, lalu file YAML (boleh tidak ada), lalu .env + environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// env-only deployment
	default:
		return nil, err
	}

	// .env is optional, same as running without one
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	return cfg, nil
}

// Validate checks the settings that make startup impossible when wrong.
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case ProviderGemini:
		if strings.TrimSpace(c.AI.GeminiAPIKey) == "" {
			return &ConfigError{Key: "GEMINI_API_KEY", Hint: "Please set it in your .env file."}
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.AI.OpenAIAPIKey) == "" {
			return &ConfigError{Key: "OPENAI_API_KEY", Hint: "Please set it in your .env file."}
		}
	default:
		return fmt.Errorf("unknown ai provider %q (allowed: %s, %s)", c.AI.Provider, ProviderGemini, ProviderOpenAI)
	}
	if c.Archive.Enabled && (c.Archive.Endpoint == "" || c.Archive.BucketName == "") {
		return &ConfigError{Key: "ARCHIVE_ENDPOINT", Hint: "Report archive is enabled but has no endpoint or bucket."}
	}
	return nil
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	if c.AI.Provider == ProviderOpenAI {
		return c.AI.OpenAIAPIKey
	}
	return c.AI.GeminiAPIKey
}
