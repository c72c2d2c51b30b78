package pagecraft

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "pagecraft.yaml", `
api_key: pc_file_key
base_url: https://staging.pagecraft.dev/v1
timeout: 5s
max_retries: 1
headers:
  X-Team: docs
rate_limit:
  rps: 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pc_file_key", cfg.APIKey)
	assert.Equal(t, "https://staging.pagecraft.dev/v1", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, "docs", cfg.Headers["x-team"])
	assert.Equal(t, 5, cfg.RateLimit.RPS)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "pagecraft.yaml", "api_key: pc_key\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "pagecraft.yaml", "api_key: pc_file_key\nmax_retries: 1\n")
	t.Setenv("PAGECRAFT_API_KEY", "pc_env_key")
	t.Setenv("PAGECRAFT_MAX_RETRIES", "0")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "pc_env_key", cfg.APIKey)
	assert.Equal(t, 0, cfg.MaxRetries)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAGECRAFT_API_KEY", "pc_env_key")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "pc_env_key", cfg.APIKey)
}

func TestLoadConfig_APIKeyErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"missing", "base_url: https://x.example\n", "API key is required"},
		{"empty", "api_key: \"\"\n", "API key is required"},
		{"number", "api_key: 12345\n", "API key must be a string"},
		{"list", "api_key: [a, b]\n", "API key must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, "pagecraft.yaml", tt.content)

			_, err := LoadConfig(path)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.message, verr.Message)
			assert.Equal(t, "apiKey", verr.Field)
		})
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"negative retries", "api_key: pc_k\nmax_retries: -1\n", "maxRetries"},
		{"zero timeout", "api_key: pc_k\ntimeout: 0s\n", "timeout"},
		{"bad log format", "api_key: pc_k\nlogging:\n  format: xml\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, "pagecraft.yaml", tt.content))

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config")
}

func TestNewFromConfig(t *testing.T) {
	cfg := &Config{
		APIKey:     "pc_key",
		BaseURL:    "https://staging.pagecraft.dev/v1/",
		Timeout:    3 * time.Second,
		MaxRetries: 0,
		RateLimit:  RateLimitConfig{RPS: 2},
	}

	client, err := NewFromConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "https://staging.pagecraft.dev/v1", client.BaseURL())
	assert.Equal(t, 3*time.Second, client.apiClient.Timeout())
	assert.Equal(t, 0, client.apiClient.MaxRetries())

	_, err = NewFromConfig(nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoadConfigWithFlags(t *testing.T) {
	path := writeConfig(t, "pagecraft.yaml", "api_key: pc_file_key\nmax_retries: 2\nbase_url: https://file.example\n")
	t.Setenv("PAGECRAFT_BASE_URL", "https://env.example")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-key", "", "")
	flags.String("base-url", "", "")
	flags.Int("retries", 0, "")
	require.NoError(t, flags.Parse([]string{"--api-key", "pc_flag_key"}))

	cfg, err := LoadConfigWithFlags(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "pc_flag_key", cfg.APIKey)
	assert.Equal(t, "https://env.example", cfg.BaseURL, "unset flags fall through to env")
	assert.Equal(t, 2, cfg.MaxRetries, "unset flags fall through to file")
}
