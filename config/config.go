package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/llmguard/client"
	"github.com/jonwraymond/llmguard/secret"
)

// Validation errors.
var (
	ErrUnknownProvider  = errors.New("config: unknown provider")
	ErrInvalidThreshold = errors.New("config: failure rate threshold must be between 0 and 100")
	ErrNegativeValue    = errors.New("config: value must not be negative")
)

// ProviderConfig configures the provider adapter.
type ProviderConfig struct {
	// Name selects the adapter: "ollama" or "openai".
	Name string `yaml:"name" env:"LLMGUARD_PROVIDER"`

	// BaseURL is the provider endpoint.
	BaseURL string `yaml:"base_url" env:"LLMGUARD_BASE_URL"`

	// Model is the default model.
	Model string `yaml:"model" env:"LLMGUARD_MODEL"`

	// APIKey references the credential as ${ENV_VAR}; resolved at load.
	APIKey string `yaml:"api_key" env:"LLMGUARD_API_KEY"`

	// MaxTokens is the default response length bound.
	MaxTokens int `yaml:"max_tokens" env:"LLMGUARD_MAX_TOKENS"`

	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" env:"LLMGUARD_TEMPERATURE"`

	// Timeout bounds a single provider request.
	Timeout Duration `yaml:"timeout" env:"LLMGUARD_TIMEOUT"`
}

// CacheConfig configures the response cache.
type CacheConfig struct {
	MaxSize int      `yaml:"max_size" env:"LLMGUARD_CACHE_MAX_SIZE"`
	TTL     Duration `yaml:"ttl" env:"LLMGUARD_CACHE_TTL"`
}

// ResilienceConfig configures the guard chain.
type ResilienceConfig struct {
	RateLimitPerMinute          int      `yaml:"rate_limit_per_minute" env:"LLMGUARD_RATE_LIMIT_PER_MINUTE"`
	BulkheadMaxConcurrent       int      `yaml:"bulkhead_max_concurrent" env:"LLMGUARD_BULKHEAD_MAX_CONCURRENT"`
	BreakerWindowSize           int      `yaml:"breaker_window_size" env:"LLMGUARD_BREAKER_WINDOW_SIZE"`
	BreakerFailureRateThreshold float64  `yaml:"breaker_failure_rate_threshold" env:"LLMGUARD_BREAKER_FAILURE_RATE_THRESHOLD"`
	BreakerOpenDuration         Duration `yaml:"breaker_open_duration" env:"LLMGUARD_BREAKER_OPEN_DURATION"`
	BreakerHalfOpenProbes       int      `yaml:"breaker_half_open_probes" env:"LLMGUARD_BREAKER_HALF_OPEN_PROBES"`
	RetryMaxAttempts            int      `yaml:"retry_max_attempts" env:"LLMGUARD_RETRY_MAX_ATTEMPTS"`
	RetryBaseDelay              Duration `yaml:"retry_base_delay" env:"LLMGUARD_RETRY_BASE_DELAY"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" env:"LLMGUARD_LOG_ENABLED"`
	Level   string `yaml:"level" env:"LLMGUARD_LOG_LEVEL"`
}

// Config is the root configuration.
type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Cache      CacheConfig      `yaml:"cache"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Provider: ProviderConfig{
			Name:        "ollama",
			BaseURL:     "http://127.0.0.1:11434",
			MaxTokens:   2048,
			Temperature: 0.7,
			Timeout:     Duration(60 * time.Second),
		},
		Cache: CacheConfig{
			MaxSize: 500,
			TTL:     Duration(5 * time.Minute),
		},
		Resilience: ResilienceConfig{
			RateLimitPerMinute:          10,
			BulkheadMaxConcurrent:       5,
			BreakerWindowSize:           10,
			BreakerFailureRateThreshold: 50,
			BreakerOpenDuration:         Duration(30 * time.Second),
			BreakerHalfOpenProbes:       3,
			RetryMaxAttempts:            3,
			RetryBaseDelay:              Duration(time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults and environment
// variables, then resolves the API key reference.
func Load() (*Config, error) {
	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	return finish(&cfg)
}

// LoadFile builds the configuration from defaults, a YAML file, and
// environment variables, in that precedence order.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}
	return finish(&cfg)
}

func finish(cfg *Config) (*Config, error) {
	key, err := secret.ResolveKey(cfg.Provider.APIKey)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Provider.APIKey = key

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	switch c.Provider.Name {
	case "ollama", "openai":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider.Name)
	}

	if c.Resilience.BreakerFailureRateThreshold < 0 || c.Resilience.BreakerFailureRateThreshold > 100 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, c.Resilience.BreakerFailureRateThreshold)
	}

	for name, v := range map[string]int{
		"cache.max_size":                      c.Cache.MaxSize,
		"resilience.rate_limit_per_minute":    c.Resilience.RateLimitPerMinute,
		"resilience.bulkhead_max_concurrent":  c.Resilience.BulkheadMaxConcurrent,
		"resilience.breaker_window_size":      c.Resilience.BreakerWindowSize,
		"resilience.breaker_half_open_probes": c.Resilience.BreakerHalfOpenProbes,
		"resilience.retry_max_attempts":       c.Resilience.RetryMaxAttempts,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeValue, name)
		}
	}
	return nil
}

// ClientConfig maps the loaded configuration onto the resilient client
// knobs.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		CacheMaxSize:                c.Cache.MaxSize,
		CacheTTL:                    c.Cache.TTL.Std(),
		RateLimitPerMinute:          c.Resilience.RateLimitPerMinute,
		BulkheadMaxConcurrent:       c.Resilience.BulkheadMaxConcurrent,
		BreakerWindowSize:           c.Resilience.BreakerWindowSize,
		BreakerFailureRateThreshold: c.Resilience.BreakerFailureRateThreshold,
		BreakerOpenDuration:         c.Resilience.BreakerOpenDuration.Std(),
		BreakerHalfOpenProbes:       c.Resilience.BreakerHalfOpenProbes,
		RetryMaxAttempts:            c.Resilience.RetryMaxAttempts,
		RetryBaseDelay:              c.Resilience.RetryBaseDelay.Std(),
	}
}
