package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	DatabaseURL        string `yaml:"database_url"`
	ServerPort         string `yaml:"server_port"`
	FrontendURL        string `yaml:"frontend_url"`
	OpenAIKey          string `yaml:"openai_api_key"`
	AIModel            string `yaml:"ai_model"`
	AIBaseURL          string `yaml:"ai_base_url"`
	InsightsPromptPath string `yaml:"insights_prompt_path"`
	RateLimit          string `yaml:"rate_limit"`
	RedisURL           string `yaml:"redis_url"`
	EnableHSTS         bool   `yaml:"enable_hsts"`
	ServerDebugMode    bool   `yaml:"server_debug_mode"`
	OTELEnabled        bool   `yaml:"otel_enabled"`
	OTELEndpoint       string `yaml:"otel_endpoint"`
}

// Load builds configuration from an optional YAML file plus environment
// variables. The file named by CONFIG_FILE (or configPath when non-empty)
// provides base values; environment variables override field by field.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		ServerPort:  "8080",
		FrontendURL: "http://localhost:3000",
	}

	if configPath == "" {
		configPath = os.Getenv("CONFIG_FILE")
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	overrideString(&cfg.DatabaseURL, "DATABASE_URL")
	overrideString(&cfg.ServerPort, "SERVER_PORT")
	overrideString(&cfg.FrontendURL, "FRONTEND_URL")
	overrideString(&cfg.OpenAIKey, "OPENAI_API_KEY")
	overrideString(&cfg.AIModel, "AI_MODEL")
	overrideString(&cfg.AIBaseURL, "AI_BASE_URL")
	overrideString(&cfg.InsightsPromptPath, "INSIGHTS_PROMPT_PATH")
	overrideString(&cfg.RateLimit, "RATE_LIMIT")
	overrideString(&cfg.RedisURL, "REDIS_URL")
	overrideBool(&cfg.EnableHSTS, "ENABLE_HSTS")
	overrideBool(&cfg.ServerDebugMode, "SERVER_DEBUG_MODE")
	overrideBool(&cfg.OTELEnabled, "OTEL_ENABLED")
	overrideString(&cfg.OTELEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	return cfg, nil
}

// AIConfigured reports whether a generation API key is available
func (c *Config) AIConfigured() bool {
	return c.OpenAIKey != ""
}

func overrideString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func overrideBool(dst *bool, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value == "true" || value == "1" || value == "yes"
	}
}
