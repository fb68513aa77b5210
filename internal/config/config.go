// Package config handles resolving configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/stolasapp/albumtest/internal/driver"
)

// LogLevel names a log level in the configuration file.
type LogLevel string

// Supported log levels.
const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

// Level returns the [slog.Level] for l.
func (l LogLevel) Level() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(l))
	return lvl, err
}

// Environment variables overriding the configuration file.
const (
	EnvLogin    = "LOGIN"
	EnvPassword = "PASSWORD"
	EnvBrowser  = "BROWSER"
	EnvBackend  = "ALBUMTEST_BACKEND"
	EnvEndpoint = "ALBUMTEST_ENDPOINT"
	EnvBaseURL  = "ALBUMTEST_BASE_URL"
)

// ErrMissingCredentials is returned by [Config.RequireCredentials].
var ErrMissingCredentials = errors.New("login and password must be set")

// Config is the configuration shared by all commands.
type Config struct {
	LogLevel LogLevel `yaml:"log_level"`
	DevMode  bool     `yaml:"dev_mode"`

	// BaseURL is the album application under test.
	BaseURL  string `yaml:"base_url"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`

	Backend string `yaml:"backend"`
	// Endpoint is the hub or DevTools address. Empty selects the local
	// WebDriver hub for selenium and a locally launched browser otherwise.
	Endpoint string        `yaml:"endpoint"`
	Browser  string        `yaml:"browser"`
	Timeout  time.Duration `yaml:"timeout"`

	// PhotosDir holds test_photo.jpg and test_photo2.jpeg. When empty the
	// bundled photos are used.
	PhotosDir string `yaml:"photos_dir"`

	// WebAddress and DBFilepath configure the stand-in application.
	WebAddress string `yaml:"web_address"`
	DBFilepath string `yaml:"db_filepath"`
}

// Default returns a version of the config with all default values populated.
// Credentials have no default.
func Default() *Config {
	return &Config{
		LogLevel:   INFO,
		BaseURL:    "http://127.0.0.1:9999",
		Backend:    string(driver.Selenium),
		Browser:    string(driver.Firefox),
		Timeout:    driver.DefaultTimeout,
		WebAddress: "localhost:9999",
		DBFilepath: filepath.Join(xdg.DataHome, "albumtest", "db.sqlite"),
	}
}

// DefaultPath is the configuration file used when none is given.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "albumtest.yaml")
}

// Load loads a YAML configuration file from a path, merges it with defaults
// and the environment, and validates it for completeness.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

// LoadOrDefault is [Load], falling back to the defaults and the environment
// when no file exists at path.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Default(), os.LookupEnv)
	}
	return cfg, err
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // allow the config file to be loaded from anywhere
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err = dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config file at %s: %w", path, err)
	}
	return finish(cfg, lookup)
}

func finish(cfg *Config, lookup func(string) (string, bool)) (*Config, error) {
	cfg.ApplyEnv(lookup)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields with the environment variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for name, field := range map[string]*string{
		EnvLogin:    &c.Login,
		EnvPassword: &c.Password,
		EnvBrowser:  &c.Browser,
		EnvBackend:  &c.Backend,
		EnvEndpoint: &c.Endpoint,
		EnvBaseURL:  &c.BaseURL,
	} {
		if val, ok := lookup(name); ok && val != "" {
			*field = val
		}
	}
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.LogLevel.Level(); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url: %q is not an absolute URL", c.BaseURL))
	}
	if _, err := driver.ParseBackend(c.Backend); err != nil {
		errs = append(errs, fmt.Errorf("backend: %w", err))
	}
	if _, err := driver.ParseProfile(c.Browser); err != nil {
		errs = append(errs, fmt.Errorf("browser: %w", err))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout: must be positive, got %s", c.Timeout))
	}
	if strings.TrimSpace(c.WebAddress) == "" {
		errs = append(errs, errors.New("web_address: must be set"))
	}
	if strings.TrimSpace(c.DBFilepath) == "" {
		errs = append(errs, errors.New("db_filepath: must be set"))
	}
	return errors.Join(errs...)
}

// RequireCredentials returns [ErrMissingCredentials] unless both login and
// password are set.
func (c *Config) RequireCredentials() error {
	if c.Login == "" || c.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// DriverOptions returns the browser session options. The config must be
// valid.
func (c *Config) DriverOptions() driver.Options {
	backend, _ := driver.ParseBackend(c.Backend)
	profile, _ := driver.ParseProfile(c.Browser)
	return driver.Options{
		Backend:  backend,
		Endpoint: c.Endpoint,
		Profile:  profile,
		Timeout:  c.Timeout,
	}
}
