package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stolasapp/albumtest/internal/driver"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "empty file uses defaults",
			yaml:    ``,
			wantErr: "",
		},
		{
			name:    "valid config",
			yaml:    "base_url: https://albums.example.com\nbackend: rod\nbrowser: chrome\ntimeout: 10s",
			wantErr: "",
		},
		{
			name:    "relative base_url fails validation",
			yaml:    `base_url: /albums`,
			wantErr: "config validation failed",
		},
		{
			name:    "unknown backend fails validation",
			yaml:    `backend: lynx`,
			wantErr: "config validation failed",
		},
		{
			name:    "unknown browser fails validation",
			yaml:    `browser: netscape`,
			wantErr: "config validation failed",
		},
		{
			name:    "bad log level fails validation",
			yaml:    `log_level: LOUD`,
			wantErr: "config validation failed",
		},
		{
			name:    "unknown field rejected",
			yaml:    `root_uri: https://example.com`,
			wantErr: "failed to unmarshal config file",
		},
		{
			name:    "invalid yaml syntax",
			yaml:    `invalid: [yaml: content`,
			wantErr: "failed to unmarshal config file",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			path := writeTestConfig(t, test.yaml)
			cfg, err := load(path, noEnv)

			if test.wantErr != "" {
				require.ErrorContains(t, err, test.wantErr)
				assert.Nil(t, cfg)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
		})
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	t.Parallel()

	path := writeTestConfig(t, "backend: playwright\ntimeout: 5s\nlog_level: DEBUG")
	cfg, err := load(path, noEnv)
	require.NoError(t, err)

	opts := cfg.DriverOptions()
	assert.Equal(t, driver.Playwright, opts.Backend)
	assert.Equal(t, driver.Firefox, opts.Profile)
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)

	lvl, err := cfg.LogLevel.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	cfg, err := Load("/nonexistent/path/config.yaml")
	require.ErrorContains(t, err, "failed to read config file")
	assert.Nil(t, cfg)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvLogin:    "tester",
		EnvPassword: "secret",
		EnvBrowser:  "CHROME",
		EnvBaseURL:  "",
	}
	cfg := Default()
	cfg.ApplyEnv(func(name string) (string, bool) {
		val, ok := env[name]
		return val, ok
	})

	assert.Equal(t, "tester", cfg.Login)
	assert.Equal(t, "secret", cfg.Password)
	assert.Equal(t, "CHROME", cfg.Browser)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL, "empty values are ignored")
	assert.Equal(t, driver.Chrome, cfg.DriverOptions().Profile)
	require.NoError(t, cfg.RequireCredentials())
}

func TestDriverOptions_Endpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "selenium falls back to the local hub",
			env:  map[string]string{},
			want: driver.DefaultEndpoint,
		},
		{
			name: "rod launches a local browser",
			env:  map[string]string{EnvBackend: "rod", EnvBrowser: "chrome"},
			want: "",
		},
		{
			name: "playwright launches a local browser",
			env:  map[string]string{EnvBackend: "playwright"},
			want: "",
		},
		{
			name: "explicit endpoint wins",
			env:  map[string]string{EnvBackend: "rod", EnvBrowser: "chrome", EnvEndpoint: "ws://127.0.0.1:9222"},
			want: "ws://127.0.0.1:9222",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := finish(Default(), func(name string) (string, bool) {
				val, ok := test.env[name]
				return val, ok
			})
			require.NoError(t, err)
			assert.Equal(t, test.want, cfg.DriverOptions().WithDefaults().Endpoint)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.BaseURL = "nope"
	cfg.Timeout = 0
	cfg.WebAddress = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "base_url")
	assert.ErrorContains(t, err, "timeout")
	assert.ErrorContains(t, err, "web_address")
}

func TestRequireCredentials(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.ErrorIs(t, cfg.RequireCredentials(), ErrMissingCredentials)
	cfg.Login = "tester"
	require.ErrorIs(t, cfg.RequireCredentials(), ErrMissingCredentials)
	cfg.Password = "secret"
	require.NoError(t, cfg.RequireCredentials())
}

func noEnv(string) (string, bool) { return "", false }

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}
