package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Cache.MaxSize != 500 {
		t.Errorf("Cache.MaxSize = %d, want 500", cfg.Cache.MaxSize)
	}
	if cfg.Cache.TTL.Std() != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL.Std())
	}
	if cfg.Resilience.RateLimitPerMinute != 10 {
		t.Errorf("RateLimitPerMinute = %d, want 10", cfg.Resilience.RateLimitPerMinute)
	}
	if cfg.Resilience.BulkheadMaxConcurrent != 5 {
		t.Errorf("BulkheadMaxConcurrent = %d, want 5", cfg.Resilience.BulkheadMaxConcurrent)
	}
	if cfg.Resilience.BreakerWindowSize != 10 {
		t.Errorf("BreakerWindowSize = %d, want 10", cfg.Resilience.BreakerWindowSize)
	}
	if cfg.Resilience.BreakerFailureRateThreshold != 50 {
		t.Errorf("BreakerFailureRateThreshold = %v, want 50", cfg.Resilience.BreakerFailureRateThreshold)
	}
	if cfg.Resilience.BreakerOpenDuration.Std() != 30*time.Second {
		t.Errorf("BreakerOpenDuration = %v, want 30s", cfg.Resilience.BreakerOpenDuration.Std())
	}
	if cfg.Resilience.BreakerHalfOpenProbes != 3 {
		t.Errorf("BreakerHalfOpenProbes = %d, want 3", cfg.Resilience.BreakerHalfOpenProbes)
	}
	if cfg.Resilience.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want 3", cfg.Resilience.RetryMaxAttempts)
	}
	if cfg.Resilience.RetryBaseDelay.Std() != time.Second {
		t.Errorf("RetryBaseDelay = %v, want 1s", cfg.Resilience.RetryBaseDelay.Std())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LLMGUARD_PROVIDER", "openai")
	t.Setenv("LLMGUARD_MODEL", "gpt-4o")
	t.Setenv("LLMGUARD_CACHE_MAX_SIZE", "100")
	t.Setenv("LLMGUARD_CACHE_TTL", "90s")
	t.Setenv("LLMGUARD_RATE_LIMIT_PER_MINUTE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.Name != "openai" {
		t.Errorf("Provider.Name = %q, want openai", cfg.Provider.Name)
	}
	if cfg.Provider.Model != "gpt-4o" {
		t.Errorf("Provider.Model = %q, want gpt-4o", cfg.Provider.Model)
	}
	if cfg.Cache.MaxSize != 100 {
		t.Errorf("Cache.MaxSize = %d, want 100", cfg.Cache.MaxSize)
	}
	if cfg.Cache.TTL.Std() != 90*time.Second {
		t.Errorf("Cache.TTL = %v, want 90s", cfg.Cache.TTL.Std())
	}
	if cfg.Resilience.RateLimitPerMinute != 25 {
		t.Errorf("RateLimitPerMinute = %d, want 25", cfg.Resilience.RateLimitPerMinute)
	}
}

func TestLoadResolvesAPIKey(t *testing.T) {
	t.Setenv("LLMGUARD_TEST_SECRET", "sk-resolved")
	t.Setenv("LLMGUARD_API_KEY", "${LLMGUARD_TEST_SECRET}")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.APIKey != "sk-resolved" {
		t.Errorf("APIKey = %q, want sk-resolved", cfg.Provider.APIKey)
	}
}

func TestLoadMissingAPIKeyEnv(t *testing.T) {
	t.Setenv("LLMGUARD_API_KEY", "${LLMGUARD_UNSET_SECRET_VAR}")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when the key reference is unresolvable")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llmguard.yaml")
	data := []byte(`
provider:
  name: openai
  model: gpt-4o-mini
cache:
  max_size: 50
  ttl: 2m
resilience:
  rate_limit_per_minute: 5
  breaker_open_duration: 10s
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.Provider.Name != "openai" {
		t.Errorf("Provider.Name = %q, want openai", cfg.Provider.Name)
	}
	if cfg.Cache.MaxSize != 50 {
		t.Errorf("Cache.MaxSize = %d, want 50", cfg.Cache.MaxSize)
	}
	if cfg.Cache.TTL.Std() != 2*time.Minute {
		t.Errorf("Cache.TTL = %v, want 2m", cfg.Cache.TTL.Std())
	}
	if cfg.Resilience.BreakerOpenDuration.Std() != 10*time.Second {
		t.Errorf("BreakerOpenDuration = %v, want 10s", cfg.Resilience.BreakerOpenDuration.Std())
	}

	// Untouched sections keep their defaults.
	if cfg.Resilience.RetryMaxAttempts != 3 {
		t.Errorf("RetryMaxAttempts = %d, want default 3", cfg.Resilience.RetryMaxAttempts)
	}
}

func TestLoadFileEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "llmguard.yaml")
	if err := os.WriteFile(path, []byte("cache:\n  max_size: 50\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	t.Setenv("LLMGUARD_CACHE_MAX_SIZE", "75")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Cache.MaxSize != 75 {
		t.Errorf("Cache.MaxSize = %d, want 75 (env over file)", cfg.Cache.MaxSize)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/llmguard.yaml"); err == nil {
		t.Error("LoadFile() should fail for a missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Provider.Name = "anthropic"
	if err := cfg.Validate(); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Validate() = %v, want %v", err, ErrUnknownProvider)
	}

	cfg = Default()
	cfg.Resilience.BreakerFailureRateThreshold = 150
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidThreshold)
	}

	cfg = Default()
	cfg.Cache.MaxSize = -1
	if err := cfg.Validate(); !errors.Is(err, ErrNegativeValue) {
		t.Errorf("Validate() = %v, want %v", err, ErrNegativeValue)
	}
}

func TestClientConfigMapping(t *testing.T) {
	cfg := Default()
	cc := cfg.ClientConfig()

	if cc.CacheMaxSize != 500 {
		t.Errorf("CacheMaxSize = %d, want 500", cc.CacheMaxSize)
	}
	if cc.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cc.CacheTTL)
	}
	if cc.BreakerOpenDuration != 30*time.Second {
		t.Errorf("BreakerOpenDuration = %v, want 30s", cc.BreakerOpenDuration)
	}
	if cc.RetryBaseDelay != time.Second {
		t.Errorf("RetryBaseDelay = %v, want 1s", cc.RetryBaseDelay)
	}
}
