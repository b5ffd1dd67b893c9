package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"
	defaultPort       = 2333
	defaultEnv        = "development"
	defaultDSN        = "root:password@tcp(127.0.0.1:3306)/words_on_phone?charset=utf8mb4&parseTime=True&loc=Local"
	defaultRedisURL   = "redis://localhost:6379/0"

	defaultDailyQuota     = 15
	defaultBatchCount     = 3
	defaultBatchSize      = 15
	defaultMaxAttempts    = 4
	defaultSampleSize     = 6
	defaultTargetCount    = 30
	defaultRequestTimeout = 25 // seconds; tuned to stay inside serverless request limits
	defaultBoosterTimeout = 5

	defaultWikipediaEndpoint = "https://en.wikipedia.org/w/api.php"
	defaultRedditEndpoint    = "https://www.reddit.com"
)

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int              `yaml:"port"`
	DSN            string           `yaml:"dsn"`
	RedisURL       string           `yaml:"redis_url"`
	Env            string           `yaml:"env"` // "development" | "production"
	AllowedOrigins []string         `yaml:"allowed_origins"`
	AI             AIConfig         `yaml:"ai"`
	Generation     GenerationConfig `yaml:"generation"`
	Boosters       BoosterConfig    `yaml:"boosters"`
}

// AIProvider describes one configured generation backend.
type AIProvider struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"` // openai | openai-compatible | anthropic | gemini
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}

type AIConfig struct {
	Providers      []AIProvider `yaml:"providers"`
	ActiveProvider string       `yaml:"active_provider"` // provider id; empty = first enabled
}

// GenerationConfig tunes the batch orchestration pipeline.
type GenerationConfig struct {
	DailyQuota            int  `yaml:"daily_quota"`
	BatchCount            int  `yaml:"batch_count"`
	BatchSize             int  `yaml:"batch_size"`
	MaxAttempts           int  `yaml:"max_attempts"`
	SampleSize            int  `yaml:"sample_size"`
	TargetCount           int  `yaml:"target_count"`
	RequestTimeoutSeconds int  `yaml:"request_timeout_seconds"`
	QuotaFailOpen         bool `yaml:"quota_fail_open"`
	UseBoosters           bool `yaml:"use_boosters"`
}

// BoosterConfig configures the external quality-signal lookups.
type BoosterConfig struct {
	WikipediaEndpoint string `yaml:"wikipedia_endpoint"`
	RedditEndpoint    string `yaml:"reddit_endpoint"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
}

type rawAppConfig struct {
	Port           int              `yaml:"port"`
	DSN            string           `yaml:"dsn"`
	DatabaseURL    string           `yaml:"database_url"`
	RedisURL       string           `yaml:"redis_url"`
	Env            string           `yaml:"env"`
	AllowedOrigins []string         `yaml:"allowed_origins"`
	AI             AIConfig         `yaml:"ai"`
	Generation     rawGeneration    `yaml:"generation"`
	Boosters       BoosterConfig    `yaml:"boosters"`
}

type rawGeneration struct {
	DailyQuota            int   `yaml:"daily_quota"`
	BatchCount            int   `yaml:"batch_count"`
	BatchSize             int   `yaml:"batch_size"`
	MaxAttempts           int   `yaml:"max_attempts"`
	SampleSize            int   `yaml:"sample_size"`
	TargetCount           int   `yaml:"target_count"`
	RequestTimeoutSeconds int   `yaml:"request_timeout_seconds"`
	QuotaFailOpen         *bool `yaml:"quota_fail_open"`
	UseBoosters           *bool `yaml:"use_boosters"`
}

// Load reads the YAML config file and normalizes it, applying defaults and
// environment fallbacks. A missing file is not an error; env/defaults apply.
func Load(configPath string) (*AppConfig, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = DefaultConfigPath
	}

	var raw rawAppConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg := &AppConfig{
		Port:           raw.Port,
		DSN:            firstNonEmpty(raw.DSN, raw.DatabaseURL),
		RedisURL:       raw.RedisURL,
		Env:            raw.Env,
		AllowedOrigins: raw.AllowedOrigins,
		AI:             raw.AI,
		Boosters:       raw.Boosters,
		Generation: GenerationConfig{
			DailyQuota:            raw.Generation.DailyQuota,
			BatchCount:            raw.Generation.BatchCount,
			BatchSize:             raw.Generation.BatchSize,
			MaxAttempts:           raw.Generation.MaxAttempts,
			SampleSize:            raw.Generation.SampleSize,
			TargetCount:           raw.Generation.TargetCount,
			RequestTimeoutSeconds: raw.Generation.RequestTimeoutSeconds,
			QuotaFailOpen:         boolOr(raw.Generation.QuotaFailOpen, true),
			UseBoosters:           boolOr(raw.Generation.UseBoosters, false),
		},
	}

	applyEnvFallbacks(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnvFallbacks(cfg *AppConfig) {
	if cfg.Port == 0 {
		if v, err := strconv.Atoi(os.Getenv("PORT")); err == nil && v > 0 {
			cfg.Port = v
		}
	}
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DSN")
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = os.Getenv("REDIS_URL")
	}
	if cfg.Env == "" {
		cfg.Env = os.Getenv("APP_ENV")
	}

	envKeys := map[string]string{
		"openai":            "OPENAI_API_KEY",
		"openai-compatible": "OPENAI_API_KEY",
		"anthropic":         "ANTHROPIC_API_KEY",
		"gemini":            "GEMINI_API_KEY",
	}
	for i := range cfg.AI.Providers {
		p := &cfg.AI.Providers[i]
		if p.APIKey != "" {
			continue
		}
		if envKey, ok := envKeys[strings.ToLower(strings.TrimSpace(p.Type))]; ok {
			p.APIKey = os.Getenv(envKey)
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = defaultRedisURL
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}

	g := &cfg.Generation
	if g.DailyQuota <= 0 {
		g.DailyQuota = defaultDailyQuota
	}
	if g.BatchCount <= 0 {
		g.BatchCount = defaultBatchCount
	}
	if g.BatchSize <= 0 {
		g.BatchSize = defaultBatchSize
	}
	if g.MaxAttempts <= 0 {
		g.MaxAttempts = defaultMaxAttempts
	}
	if g.SampleSize <= 0 {
		g.SampleSize = defaultSampleSize
	}
	if g.TargetCount <= 0 {
		g.TargetCount = defaultTargetCount
	}
	if g.RequestTimeoutSeconds <= 0 {
		g.RequestTimeoutSeconds = defaultRequestTimeout
	}

	b := &cfg.Boosters
	if b.WikipediaEndpoint == "" {
		b.WikipediaEndpoint = defaultWikipediaEndpoint
	}
	if b.RedditEndpoint == "" {
		b.RedditEndpoint = defaultRedditEndpoint
	}
	if b.TimeoutSeconds <= 0 {
		b.TimeoutSeconds = defaultBoosterTimeout
	}
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.ToLower(strings.TrimSpace(c.Env)) != "production"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
