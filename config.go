package pagecraft

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pagecraft/client-go/internal/apierrors"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig,
// e.g. PAGECRAFT_API_KEY or PAGECRAFT_RATE_LIMIT_RPS.
const EnvPrefix = "PAGECRAFT"

// Config is the file and environment representation of client settings.
type Config struct {
	APIKey     string            `mapstructure:"api_key"`
	BaseURL    string            `mapstructure:"base_url"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxRetries int               `mapstructure:"max_retries"`
	Headers    map[string]string `mapstructure:"headers"`
	RateLimit  RateLimitConfig   `mapstructure:"rate_limit"`
	Logging    LoggingConfig     `mapstructure:"logging"`
}

// RateLimitConfig enables client-side throttling when RPS is set.
type RateLimitConfig struct {
	RPS   int `mapstructure:"rps"`
	Burst int `mapstructure:"burst"`
}

// LoggingConfig is consumed by the command line tool.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads settings from path (YAML, JSON or TOML) and PAGECRAFT_*
// environment variables, which take precedence. With an empty path the file
// is optional and searched as pagecraft.yaml in the working directory and
// in ~/.config/pagecraft.
func LoadConfig(path string) (*Config, error) {
	return loadConfig(path, nil)
}

// flagKeys maps command line flag names onto configuration keys.
var flagKeys = map[string]string{
	"api-key":    "api_key",
	"base-url":   "base_url",
	"timeout":    "timeout",
	"retries":    "max_retries",
	"rate-limit": "rate_limit.rps",
	"log-level":  "logging.level",
	"log-format": "logging.format",
}

// LoadConfigWithFlags is LoadConfig with flags taking precedence over the
// environment and the file. Only flags present in flags and set by the user
// override other sources.
func LoadConfigWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	return loadConfig(path, flags)
}

func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// api_key has no default, so AutomaticEnv alone would not surface it to Unmarshal.
	_ = v.BindEnv("api_key")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pagecraft")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "pagecraft"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if raw := v.Get("api_key"); raw != nil {
		if _, ok := raw.(string); !ok {
			return nil, apierrors.NewValidationError("API key must be a string", "apiKey")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", defaultBaseURL)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("max_retries", defaultRetries)

	v.SetDefault("rate_limit.rps", 0)
	v.SetDefault("rate_limit.burst", 0)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

func validateConfig(cfg *Config) error {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return apierrors.NewValidationError("API key is required", "apiKey")
	}
	if cfg.BaseURL == "" {
		return apierrors.NewValidationError("base_url must not be empty", "baseUrl")
	}
	if cfg.Timeout <= 0 {
		return apierrors.NewValidationError("timeout must be positive", "timeout")
	}
	if cfg.MaxRetries < 0 {
		return apierrors.NewValidationError("max_retries must not be negative", "maxRetries")
	}
	if cfg.RateLimit.RPS < 0 || cfg.RateLimit.Burst < 0 {
		return apierrors.NewValidationError("rate_limit values must not be negative", "rateLimit")
	}

	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return apierrors.NewValidationError(fmt.Sprintf("invalid logging format: %s", cfg.Logging.Format), "logging.format")
	}
	return nil
}

// Options converts the configuration into client options.
func (c *Config) Options() []Option {
	opts := []Option{
		WithBaseURL(c.BaseURL),
		WithTimeout(c.Timeout),
		WithRetries(c.MaxRetries),
	}
	if len(c.Headers) > 0 {
		opts = append(opts, WithHeaders(c.Headers))
	}
	if c.RateLimit.RPS > 0 {
		burst := c.RateLimit.Burst
		if burst == 0 {
			burst = c.RateLimit.RPS
		}
		opts = append(opts, WithRateLimit(c.RateLimit.RPS, burst))
	}
	return opts
}

// NewFromConfig creates a client from cfg. Extra options are applied after
// the configured ones.
func NewFromConfig(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, apierrors.NewValidationError("config is required", "config")
	}
	return New(cfg.APIKey, append(cfg.Options(), opts...)...)
}
