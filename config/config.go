// Package config loads transcache settings from flags, environment and an
// optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lingofyra/transcache"
)

// EnvPrefix prefixes every environment variable, e.g. TRANSCACHE_TARGET_LANG.
const EnvPrefix = "TRANSCACHE"

// ConfigName is the config file name searched in $HOME and the working directory.
const ConfigName = ".transcache"

// Providers lists the accepted provider names.
var Providers = []string{"google", "openai", "gemini", "mock"}

// Config is the full runtime configuration.
type Config struct {
	SourceLang string        `mapstructure:"source_lang"`
	TargetLang string        `mapstructure:"target_lang"`
	Provider   string        `mapstructure:"provider"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BatchLimit int           `mapstructure:"batch_limit"`

	Retry      RetryConfig      `mapstructure:"retry"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Breaker    BreakerConfig    `mapstructure:"breaker"`
	Google     GoogleConfig     `mapstructure:"google"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Log        LogConfig        `mapstructure:"log"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseDelay  time.Duration `mapstructure:"base_delay"`
	MaxDelay   time.Duration `mapstructure:"max_delay"`
}

// RateLimitConfig bounds provider requests. Zero RequestsPerMinute disables it.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	Burst             int `mapstructure:"burst"`
}

type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
	OpenTimeout         time.Duration `mapstructure:"open_timeout"`
}

type GoogleConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// RedisConfig enables the shared Redis cache when URL is set.
type RedisConfig struct {
	URL       string        `mapstructure:"url"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

type DictionaryConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig controls structured logging. File enables a rotating log file
// next to stderr output.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// TelemetryConfig enables OpenTelemetry export to rotating files in Dir.
type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Dir            string        `mapstructure:"dir"`
	MetricInterval time.Duration `mapstructure:"metric_interval"`
}

// New returns a viper instance with every key defaulted and environment
// lookup enabled. Callers bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	retry := transcache.DefaultRetryConfig()
	breaker := transcache.DefaultBreakerConfig()

	v.SetDefault("source_lang", "en")
	v.SetDefault("target_lang", "hi")
	v.SetDefault("provider", "google")
	v.SetDefault("timeout", transcache.DefaultTimeout)
	v.SetDefault("batch_limit", 8)

	v.SetDefault("retry.max_retries", retry.MaxRetries)
	v.SetDefault("retry.base_delay", retry.BaseDelay)
	v.SetDefault("retry.max_delay", retry.MaxDelay)

	v.SetDefault("rate_limit.requests_per_minute", 120)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("breaker.enabled", true)
	v.SetDefault("breaker.consecutive_failures", breaker.ConsecutiveFailures)
	v.SetDefault("breaker.open_timeout", breaker.OpenTimeout)

	v.SetDefault("google.base_url", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.key_prefix", "transcache:")
	v.SetDefault("redis.ttl", time.Duration(0))

	v.SetDefault("dictionary.base_url", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.dir", "telemetry")
	v.SetDefault("telemetry.metric_interval", 30*time.Second)
}

// Load reads cfgFile (or .transcache.yaml from $HOME or the working
// directory when cfgFile is empty) into v and returns the validated config.
// A missing default config file is not an error.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	// Conventional provider variables win over an empty setting.
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := transcache.CanonicalLang(c.SourceLang); err != nil {
		return fmt.Errorf("source_lang: %w", err)
	}
	if _, err := transcache.CanonicalLang(c.TargetLang); err != nil {
		return fmt.Errorf("target_lang: %w", err)
	}

	known := false
	for _, p := range Providers {
		if c.Provider == p {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("provider: unknown %q (want one of %s)", c.Provider, strings.Join(Providers, ", "))
	}

	switch {
	case c.Provider == "openai" && c.OpenAI.APIKey == "":
		return errors.New("openai.api_key is required for the openai provider (or set OPENAI_API_KEY)")
	case c.Provider == "gemini" && c.Gemini.APIKey == "":
		return errors.New("gemini.api_key is required for the gemini provider (or set GEMINI_API_KEY)")
	}

	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if c.BatchLimit < 0 {
		return errors.New("batch_limit must not be negative")
	}
	if c.Retry.MaxRetries < 0 {
		return errors.New("retry.max_retries must not be negative")
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return errors.New("rate_limit.requests_per_minute must not be negative")
	}
	if c.Telemetry.Enabled && c.Telemetry.Dir == "" {
		return errors.New("telemetry.dir is required when telemetry is enabled")
	}
	return nil
}

// RetryConfig converts the retry settings.
func (c *Config) RetryConfig() transcache.RetryConfig {
	return transcache.RetryConfig{
		MaxRetries: c.Retry.MaxRetries,
		BaseDelay:  c.Retry.BaseDelay,
		MaxDelay:   c.Retry.MaxDelay,
	}
}

// BreakerConfig converts the circuit breaker settings.
func (c *Config) BreakerConfig() transcache.BreakerConfig {
	return transcache.BreakerConfig{
		Name:                c.Provider,
		ConsecutiveFailures: c.Breaker.ConsecutiveFailures,
		OpenTimeout:         c.Breaker.OpenTimeout,
	}
}

// RateLimitConfig converts the rate limit settings.
func (c *Config) RateLimitConfig() transcache.RateLimitConfig {
	return transcache.RateLimitConfig{
		RequestsPerMinute: c.RateLimit.RequestsPerMinute,
		BurstSize:         c.RateLimit.Burst,
	}
}
