package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service. Both external
// credentials are optional: without a GitHub token the platform API works
// at the low unauthenticated quota, and without a Gemini key narratives
// come from the rule-based fallback.
type Config struct {
	Port             string        `mapstructure:"PORT"`
	DataDir          string        `mapstructure:"DATA_DIR"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	GithubToken      string        `mapstructure:"GITHUB_TOKEN"`
	GeminiAPIKey     string        `mapstructure:"GEMINI_API_KEY"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxAnalyzedRepos int           `mapstructure:"MAX_ANALYZED_REPOS"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
}

// LoadConfig reads configuration from the environment and an optional
// .env file.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CACHE_TTL", "24h")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("MAX_ANALYZED_REPOS", 30)
	v.SetDefault("RATE_LIMIT_RPS", 1.0)
	v.SetDefault("RATE_LIMIT_BURST", 5)

	// Defaults double as env bindings: AutomaticEnv only resolves keys
	// viper already knows about, so the credentials need an empty default
	// to be picked up from the environment.
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("GEMINI_API_KEY", "")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // .env is optional

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	if cfg.MaxAnalyzedRepos <= 0 {
		return nil, fmt.Errorf("MAX_ANALYZED_REPOS must be positive, got %d", cfg.MaxAnalyzedRepos)
	}

	return &cfg, nil
}
