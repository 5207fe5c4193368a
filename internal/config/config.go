// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (CDASH_URL, CDASH_TOKEN)
//  2. Config file (~/.cdash-mcp/config.yaml, or ./config.yaml)
//  3. Default values (the public open.cdash.org instance)
//
// Security: the API token is never logged and is masked in MarshalJSON.
// Validation is fail-fast: Load returns an error for an unusable base URL or
// timeout rather than letting the first tool call discover it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidBaseURL indicates the CDash base URL is missing or unparsable.
	ErrInvalidBaseURL = errors.New("invalid CDash base URL")

	// ErrInvalidScheme indicates the CDash base URL has a non-HTTP scheme.
	ErrInvalidScheme = errors.New("invalid CDash URL scheme")

	// ErrInvalidTimeout indicates the request timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid request timeout")

	// ErrInvalidRateLimit indicates a negative upstream request rate.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

const (
	// DefaultBaseURL is the public CDash instance used when CDASH_URL is unset.
	DefaultBaseURL = "https://open.cdash.org"

	// DefaultTimeoutSeconds is the per-request timeout applied by the
	// transport. Surfaces as a connection error on expiry.
	DefaultTimeoutSeconds = 30

	// MaxTimeoutSeconds bounds the configurable timeout.
	MaxTimeoutSeconds = 600

	// DefaultRequestsPerSecond paces requests against shared public CDash
	// instances. Zero disables pacing.
	DefaultRequestsPerSecond = 10.0
)

// Config stores application configuration.
// SECURITY: Token is masked in MarshalJSON; keep it that way when adding
// new sensitive fields.
type Config struct {
	// BaseURL is the CDash instance URL, without a trailing slash.
	BaseURL string `mapstructure:"cdash_url" json:"cdash_url"`

	// Token is the CDash API token sent as a bearer header when non-empty.
	Token string `mapstructure:"cdash_token" json:"cdash_token"` // SENSITIVE

	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" json:"timeout_seconds"`

	// RequestsPerSecond caps the upstream request rate. Zero disables it.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" json:"requests_per_second"`

	// OTLPEndpoint, when non-empty, enables trace export to an OTLP/HTTP
	// collector at host:port.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" json:"otlp_endpoint"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level" json:"log_level"`

	// LogJSON switches log output from text to JSON format.
	LogJSON bool `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".cdash-mcp"))
	}
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("cdash_url", DefaultBaseURL)
	v.SetDefault("cdash_token", "")
	v.SetDefault("timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("requests_per_second", DefaultRequestsPerSecond)
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds the documented environment variables explicitly.
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("cdash_url", "CDASH_URL")
	_ = v.BindEnv("cdash_token", "CDASH_TOKEN")
	_ = v.BindEnv("timeout_seconds", "CDASH_TIMEOUT_SECONDS")
	_ = v.BindEnv("requests_per_second", "CDASH_REQUESTS_PER_SECOND")
	_ = v.BindEnv("otlp_endpoint", "CDASH_MCP_OTLP_ENDPOINT")
	_ = v.BindEnv("log_level", "CDASH_MCP_LOG_LEVEL")
}

// Validate checks the configuration and returns a sentinel-wrapped error for
// the first problem found.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidBaseURL)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidBaseURL, c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q (want http or https)", ErrInvalidScheme, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.TimeoutSeconds < 1 || c.TimeoutSeconds > MaxTimeoutSeconds {
		return fmt.Errorf("%w: %d (want 1..%d seconds)", ErrInvalidTimeout, c.TimeoutSeconds, MaxTimeoutSeconds)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: %g (want >= 0)", ErrInvalidRateLimit, c.RequestsPerSecond)
	}
	return nil
}

// MarshalJSON masks the token so config dumps are safe to log.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	masked := alias(c)
	if masked.Token != "" {
		masked.Token = "***"
	}
	return json.Marshal(masked)
}
