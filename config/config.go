// Package config loads service configuration from YAML with environment
// overrides, falling back to development defaults when neither is present.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	serverAddrEnv = "TWIN_SERVER_ADDR"
	databaseEnv   = "TWIN_DATABASE_DSN"
	llmAPIKeyEnv  = "TWIN_LLM_API_KEY"
	llmModelEnv   = "TWIN_LLM_MODEL"
	llmBaseURLEnv = "TWIN_LLM_BASE_URL"
)

// Config holds every setting the service needs at startup.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	// DemoUserID scopes all requests until real auth lands.
	DemoUserID string `yaml:"demo_user_id"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig describes the Postgres connection. An empty DSN selects the
// in-memory store, which is only suitable for development and tests.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LLMConfig defines how to reach the model provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // "openai", "deepseek" (OpenAI-compatible) or "mock"
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// Load reads YAML configuration from path (if non-empty) and applies
// environment overrides on top of defaults.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, err
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(databaseEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(llmBaseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}
}

func (c Config) validate() error {
	if c.LLM.Provider == "" {
		return errors.New("config: llm.provider is required")
	}
	if c.LLM.Provider != "mock" && c.LLM.Model == "" {
		return errors.New("config: llm.model is required")
	}
	if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
		return errors.New("config: llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.LLM.Provider != "" {
		base.LLM.Provider = override.LLM.Provider
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.DemoUserID != "" {
		base.DemoUserID = override.DemoUserID
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Server:     ServerConfig{Addr: ":8080"},
		Database:   DatabaseConfig{DSN: ""},
		LLM:        LLMConfig{Provider: "mock"},
		DemoUserID: "demo-user",
	}
}
