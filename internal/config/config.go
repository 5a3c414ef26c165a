package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// #region types

// Config is the engine's runtime configuration.
type Config struct {
	DBPath string `yaml:"db_path"`

	LLM struct {
		BaseURL    string `yaml:"base_url"`
		Model      string `yaml:"model"`
		APIKeyEnv  string `yaml:"api_key_env"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"llm"`

	RateLimit struct {
		MaxCallsPerDay   int `yaml:"max_calls_per_day"`
		MinIntervalHours int `yaml:"min_interval_hours"`
	} `yaml:"rate_limit"`
}

// #endregion types

// #region defaults

// Default returns the baseline configuration, before file and env overrides.
func Default() Config {
	var c Config
	c.DBPath = "companion.db"
	c.LLM.BaseURL = "https://api.openai.com/v1"
	c.LLM.Model = "gpt-4o-mini"
	c.LLM.APIKeyEnv = "OPENAI_API_KEY"
	c.LLM.TimeoutSec = 15
	c.RateLimit.MaxCallsPerDay = 5
	c.RateLimit.MinIntervalHours = 4
	return c
}

// #endregion defaults

// #region load

// Load reads config from path (optional; missing file keeps defaults) and
// then applies env overrides: COMPANION_DB, COMPANION_LLM_URL,
// COMPANION_LLM_MODEL, COMPANION_LLM_TIMEOUT_SEC.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return c, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("COMPANION_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("COMPANION_LLM_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("COMPANION_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("COMPANION_LLM_TIMEOUT_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.LLM.TimeoutSec = n
		}
	}

	return c, nil
}

// #endregion load

// #region accessors

// APIKey resolves the configured API key env var. Empty means template-only
// mode.
func (c Config) APIKey() string {
	if c.LLM.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.LLM.APIKeyEnv)
}

// LLMTimeout returns the completion timeout as a duration.
func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSec) * time.Second
}

// MinInterval returns the rate limiter's minimum spacing.
func (c Config) MinInterval() time.Duration {
	return time.Duration(c.RateLimit.MinIntervalHours) * time.Hour
}

// #endregion accessors
