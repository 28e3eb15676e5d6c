package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// DefaultPath is read when no config file is given; it may be absent.
	DefaultPath = "config.yaml"

	envPrefix = "SUPPORT_"

	// Environment variables honored for the Gemini credential and endpoint.
	apiKeyEnv  = "GEMINI_API_KEY"
	baseURLEnv = "GEMINI_BASE_URL"
)

// ErrMissingAPIKey means no LLM credential was configured. The workflow must
// not start without one.
var ErrMissingAPIKey = errors.New("LLM API key not configured (set GEMINI_API_KEY or llm.api_key)")

type Config struct {
	LLM        LLMConfig        `koanf:"llm"`
	Scheduling SchedulingConfig `koanf:"scheduling"`
	Log        LogConfig        `koanf:"log"`
	Storage    StorageConfig    `koanf:"storage"`
	Telemetry  TelemetryConfig  `koanf:"telemetry"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// LLMConfig configures the policy completion endpoint.
type LLMConfig struct {
	APIKey      string        `koanf:"api_key"`
	BaseURL     string        `koanf:"base_url"`
	Model       string        `koanf:"model"`
	Temperature float32       `koanf:"temperature"`
	MaxTokens   int           `koanf:"max_tokens"`
	Timeout     time.Duration `koanf:"timeout"`
}

type SchedulingConfig struct {
	// Offset is added to the evaluation time to book the appointment.
	Offset time.Duration `koanf:"offset"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // none, memory, sqlite, redis
	SQLite SQLiteConfig `koanf:"sqlite"`
	Redis  RedisConfig  `koanf:"redis"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
	// TTL expires journaled runs; zero keeps them forever.
	TTL time.Duration `koanf:"ttl"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

type MetricsConfig struct {
	// Textfile is a node-exporter textfile path written after each invocation.
	Textfile string `koanf:"textfile"`
}

var defaults = map[string]any{
	"llm.base_url":           "https://generativelanguage.googleapis.com/v1beta/openai/",
	"llm.model":              "gemini-2.5-flash",
	"llm.temperature":        0.2,
	"llm.max_tokens":         200,
	"llm.timeout":            "30s",
	"scheduling.offset":      "26h",
	"log.level":              "info",
	"log.format":             "text",
	"storage.type":           "none",
	"storage.sqlite.path":    "./data/inquiries.db",
	"storage.redis.addr":     "localhost:6379",
	"storage.redis.prefix":   "support:run:",
	"telemetry.service_name": "support-inquiry-pipeline",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads configuration from path (DefaultPath when empty), then
// SUPPORT_* environment variables, which take precedence. Nested keys use a
// double underscore: SUPPORT_LLM__MODEL sets llm.model.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// A missing default file is fine; a missing explicit one is not.
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if v := os.Getenv(baseURLEnv); v != "" && !k.Exists("llm.base_url") {
		k.Set("llm.base_url", v)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LLM.APIKey = substituteEnvVars(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = substituteEnvVars(cfg.LLM.BaseURL)
	cfg.Storage.Redis.Password = substituteEnvVars(cfg.Storage.Redis.Password)

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv(apiKeyEnv)
	}

	return &cfg, nil
}

// Validate checks that the configuration can start a workflow.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if c.LLM.BaseURL == "" {
		return errors.New("llm.base_url must not be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model must not be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature %v out of range [0, 2]", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm.max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.Scheduling.Offset <= 0 {
		return fmt.Errorf("scheduling.offset must be positive, got %s", c.Scheduling.Offset)
	}

	switch c.Storage.Type {
	case "none", "memory":
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			return errors.New("storage.sqlite.path is required for sqlite storage")
		}
	case "redis":
		if c.Storage.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required for redis storage")
		}
		if c.Storage.Redis.TTL < 0 {
			return fmt.Errorf("storage.redis.ttl must not be negative, got %s", c.Storage.Redis.TTL)
		}
	default:
		return fmt.Errorf("invalid storage.type %q (must be none, memory, sqlite or redis)", c.Storage.Type)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	return nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
