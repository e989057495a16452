package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Supported generator providers
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderStub      = "stub"
)

// Config holds all application configuration
type Config struct {
	Version   int             `toml:"version"`
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Generator GeneratorConfig `toml:"generator"`
	Content   ContentConfig   `toml:"content"`
	Terms     TermsConfig     `toml:"terms"`
	Limits    LimitsConfig    `toml:"limits"`
	SiteURL   string          `toml:"site_url"`
	Debug     bool            `toml:"debug"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type GeneratorConfig struct {
	Provider       string  `toml:"provider"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

type ContentConfig struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	CacheTTLHours  int     `toml:"cache_ttl_hours"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

type TermsConfig struct {
	EvergreenProbability float64 `toml:"evergreen_probability"`
	MaxTermsPerTitle     int     `toml:"max_terms_per_title"`
	MaxTitles            int     `toml:"max_titles"`
}

type LimitsConfig struct {
	MaxRepliesPerUser  int `toml:"max_replies_per_user"`
	UserCooldownHours  int `toml:"user_cooldown_hours"`
	DailyWarnThreshold int `toml:"daily_warn_threshold"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Port: "8000",
		},
		Database: DatabaseConfig{
			Path: "xbot_memory.db",
		},
		Generator: GeneratorConfig{
			Provider:       ProviderGroq,
			Model:          "meta-llama/llama-4-maverick-17b-128e-instruct",
			Temperature:    0.7,
			MaxTokens:      500,
			TimeoutSeconds: 30,
		},
		Content: ContentConfig{
			BaseURL:        "https://api.themoviedb.org/3",
			CacheTTLHours:  6,
			TimeoutSeconds: 10,
			RequestsPerSec: 4,
		},
		Terms: TermsConfig{
			EvergreenProbability: 0.6,
			MaxTermsPerTitle:     5,
			MaxTitles:            10,
		},
		Limits: LimitsConfig{
			MaxRepliesPerUser:  2,
			UserCooldownHours:  24,
			DailyWarnThreshold: 150,
		},
		SiteURL: "streamixapp.pages.dev",
	}
}

// Load reads config from the given path, then applies environment overrides.
// A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overrides file values with environment variables. Secrets are
// expected to come from the environment, not the config file.
func (c *Config) applyEnv() {
	c.Server.Port = getEnv("XBOT_PORT", c.Server.Port)
	c.Database.Path = getEnv("XBOT_DB_PATH", c.Database.Path)
	c.Generator.APIKey = getEnv("GROQ_API_KEY", c.Generator.APIKey)
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" && c.Generator.APIKey == "" {
		c.Generator.Provider = ProviderAnthropic
		c.Generator.APIKey = key
		if c.Generator.Model == Default().Generator.Model {
			c.Generator.Model = "claude-sonnet-4-20250514"
		}
	}
	c.Generator.Model = getEnv("XBOT_MODEL", c.Generator.Model)
	c.Content.APIKey = getEnv("TMDB_API_KEY", c.Content.APIKey)
	c.Content.BaseURL = getEnv("TMDB_BASE_URL", c.Content.BaseURL)
	c.SiteURL = getEnv("XBOT_SITE_URL", c.SiteURL)
	c.Debug = getEnvBool("XBOT_DEBUG", c.Debug)
}

// Save writes config to disk
func (c *Config) Save(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// GeneratorTimeout returns the bounded timeout for draft-generation calls.
func (c *Config) GeneratorTimeout() time.Duration {
	return time.Duration(c.Generator.TimeoutSeconds) * time.Second
}

// ContentTimeout returns the bounded timeout for content-metadata calls.
func (c *Config) ContentTimeout() time.Duration {
	return time.Duration(c.Content.TimeoutSeconds) * time.Second
}

// ContentCacheTTL returns how long cached content-source responses stay fresh.
func (c *Config) ContentCacheTTL() time.Duration {
	return time.Duration(c.Content.CacheTTLHours) * time.Hour
}

// CooldownWindow returns the sliding window used for the per-user reply cap.
func (c *Config) CooldownWindow() time.Duration {
	return time.Duration(c.Limits.UserCooldownHours) * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
