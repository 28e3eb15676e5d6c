package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_BASE_URL", "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.BaseURL != "https://generativelanguage.googleapis.com/v1beta/openai/" {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", cfg.LLM.Temperature)
	}
	if cfg.LLM.MaxTokens != 200 {
		t.Errorf("MaxTokens = %d, want 200", cfg.LLM.MaxTokens)
	}
	if cfg.LLM.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.LLM.Timeout)
	}
	if cfg.Scheduling.Offset != 26*time.Hour {
		t.Errorf("Offset = %s, want 26h", cfg.Scheduling.Offset)
	}
	if cfg.Storage.Type != "none" {
		t.Errorf("Storage.Type = %q, want none", cfg.Storage.Type)
	}
	if cfg.Storage.Redis.Addr != "localhost:6379" || cfg.Storage.Redis.Prefix != "support:run:" {
		t.Errorf("Redis defaults = %+v", cfg.Storage.Redis)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_GEMINI_KEY", "from-substitution")

	path := writeConfig(t, `
llm:
  api_key: ${TEST_GEMINI_KEY}
  model: gemini-2.0-flash
  timeout: 5s
storage:
  type: sqlite
  sqlite:
    path: /tmp/runs.db
`)

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LLM.APIKey != "from-substitution" {
			t.Errorf("APIKey = %q", cfg.LLM.APIKey)
		}
		if cfg.LLM.Model != "gemini-2.0-flash" {
			t.Errorf("Model = %q", cfg.LLM.Model)
		}
		if cfg.LLM.Timeout != 5*time.Second {
			t.Errorf("Timeout = %s", cfg.LLM.Timeout)
		}
		if cfg.LLM.MaxTokens != 200 {
			t.Errorf("MaxTokens default not applied: %d", cfg.LLM.MaxTokens)
		}
		if cfg.Storage.SQLite.Path != "/tmp/runs.db" {
			t.Errorf("SQLite.Path = %q", cfg.Storage.SQLite.Path)
		}
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("SUPPORT_LLM__MODEL", "gemini-2.5-pro")
		t.Setenv("SUPPORT_LLM__MAX_TOKENS", "64")

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LLM.Model != "gemini-2.5-pro" {
			t.Errorf("Model = %q, want env override", cfg.LLM.Model)
		}
		if cfg.LLM.MaxTokens != 64 {
			t.Errorf("MaxTokens = %d, want 64", cfg.LLM.MaxTokens)
		}
	})
}

func TestLoad_GeminiEnvironment(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GEMINI_BASE_URL", "https://proxy.internal/openai/")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "gemini-key" {
		t.Errorf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "https://proxy.internal/openai/" {
		t.Errorf("BaseURL = %q", cfg.LLM.BaseURL)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	valid := func() *Config {
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		cfg.LLM.APIKey = "key"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on defaults with key = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing api key", func(c *Config) { c.LLM.APIKey = "  " }},
		{"zero max tokens", func(c *Config) { c.LLM.MaxTokens = 0 }},
		{"negative temperature", func(c *Config) { c.LLM.Temperature = -0.1 }},
		{"zero timeout", func(c *Config) { c.LLM.Timeout = 0 }},
		{"zero offset", func(c *Config) { c.Scheduling.Offset = 0 }},
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }},
		{"sqlite without path", func(c *Config) { c.Storage.Type = "sqlite"; c.Storage.SQLite.Path = "" }},
		{"redis without addr", func(c *Config) { c.Storage.Type = "redis"; c.Storage.Redis.Addr = "" }},
		{"negative redis ttl", func(c *Config) { c.Storage.Type = "redis"; c.Storage.Redis.TTL = -time.Second }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	t.Run("missing key sentinel", func(t *testing.T) {
		cfg := valid()
		cfg.LLM.APIKey = ""
		if err := cfg.Validate(); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("Validate() = %v, want ErrMissingAPIKey", err)
		}
	})
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple substitution", "${TEST_VAR}", "test-value"},
		{"substitution in string", "prefix-${TEST_VAR}-suffix", "prefix-test-value-suffix"},
		{"no substitution", "plain-string", "plain-string"},
		{"undefined var", "${UNDEFINED_VAR_FOR_TEST}", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := substituteEnvVars(tt.input); got != tt.want {
				t.Errorf("substituteEnvVars(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
