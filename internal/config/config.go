package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Environment string `json:"environment"`
	APIPrefix   string `json:"api_prefix"`
	LogLevel    string `json:"log_level"`

	// Application identity (APP_NAME in the environment)
	AppName string `json:"app_name"`

	// CORS
	CORSOrigins []string `json:"cors_origins"`

	// Auth
	APIKeyHeader string   `json:"api_key_header"`
	APIKeys      []string `json:"api_keys"`
	EnableAuth   bool     `json:"enable_auth"`

	// Rate Limiting
	RateLimitPerMinute int `json:"rate_limit_per_minute"`

	// Model / LLM. GitHubToken is the credential for the GitHub Models
	// endpoint (or any compatible proxy reached via ModelBaseURL).
	GitHubToken  string `json:"-"`
	Model        string `json:"model"`
	ModelBaseURL string `json:"model_base_url"`
	AgentTimeout int    `json:"agent_timeout"`

	// Security
	EnablePIIDetection  bool     `json:"enable_pii_detection"`
	EnableAuditLogging  bool     `json:"enable_audit_logging"`
	PIIKeywords         []string `json:"pii_keywords"`
	MaxTokensPerRequest int64    `json:"max_tokens_per_request"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Host:                DefaultHost,
		Port:                DefaultPort,
		Environment:         DefaultEnvironment,
		APIPrefix:           DefaultAPIPrefix,
		LogLevel:            DefaultLogLevel,
		AppName:             DefaultAppName,
		CORSOrigins:         DefaultCORSOrigins,
		APIKeyHeader:        "X-API-Key",
		EnableAuth:          true,
		RateLimitPerMinute:  DefaultRateLimitPerMinute,
		Model:               DefaultModel,
		ModelBaseURL:        DefaultModelBaseURL,
		AgentTimeout:        DefaultAgentTimeout,
		EnablePIIDetection:  true,
		EnableAuditLogging:  true,
		PIIKeywords:         DefaultPIIKeywords,
		MaxTokensPerRequest: DefaultMaxTokensPerRequest,
	}

	// Load from JSON config file if specified
	if path := getEnv("GEARBOX_CONFIG", ""); path != "" {
		if err := loadJSON(path, cfg); err != nil {
			return nil, err
		}
	}

	// Environment overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// HasToken reports whether the required model credential is present.
func (c *Config) HasToken() bool {
	return c.GitHubToken != ""
}

func loadJSON(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if v := getEnv("APP_NAME", ""); v != "" {
		cfg.AppName = v
	}
	if v := getEnv("GITHUB_TOKEN", ""); v != "" {
		cfg.GitHubToken = v
	}
	if v := getEnv("GEARBOX_HOST", ""); v != "" {
		cfg.Host = v
	}
	if v := getEnv("GEARBOX_PORT", ""); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Port = p
		}
	}
	if v := getEnv("GEARBOX_ENV", ""); v != "" {
		cfg.Environment = v
	}
	if v := getEnv("GEARBOX_LOG_LEVEL", ""); v != "" {
		cfg.LogLevel = v
	}
	if v := getEnv("GEARBOX_API_KEYS", ""); v != "" {
		cfg.APIKeys = strings.Split(v, ",")
	}
	if v := getEnv("GEARBOX_MODEL", ""); v != "" {
		cfg.Model = v
	}
	if v := getEnv("GEARBOX_MODEL_BASE_URL", ""); v != "" {
		cfg.ModelBaseURL = v
	}
	if v := getEnv("GEARBOX_AGENT_TIMEOUT", ""); v != "" {
		if t, err := strconv.Atoi(v); err == nil {
			cfg.AgentTimeout = t
		}
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		if r, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitPerMinute = r
		}
	}
	if v := getEnv("ENABLE_AUTH", ""); v != "" {
		cfg.EnableAuth = v == "true" || v == "1"
	}
	if v := getEnv("MAX_TOKENS_PER_REQUEST", ""); v != "" {
		if b, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxTokensPerRequest = b
		}
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
