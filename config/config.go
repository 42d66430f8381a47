// Package config loads suite configuration from a TOML file with
// environment-variable overrides, and centralizes every timeout the suite
// uses as named wait profiles.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"storewalk/wait"
)

// Browsers the suite knows how to drive.
const (
	BrowserChrome  = "chrome"
	BrowserFirefox = "firefox"
)

// Config describes the target storefront and the local driver setup.
type Config struct {
	// BaseURL is the storefront under test.
	BaseURL string `toml:"base_url"`
	// APIBaseURL is the storefront's HTTP API. Defaults to BaseURL.
	APIBaseURL string `toml:"api_base_url"`

	Browser string `toml:"browser"`
	// BrowserPath points at a non-default browser binary, if any.
	BrowserPath string `toml:"browser_path"`
	// DriverPath is the chromedriver/geckodriver binary, typically put in
	// place by cmd/fetchdrivers.
	DriverPath string `toml:"driver_path"`
	DriverPort int    `toml:"driver_port"`
	Headless   bool   `toml:"headless"`

	// AxeScript is a local copy of axe-core to inject for accessibility
	// audits. When empty the audit falls back to script-tag injection.
	AxeScript string `toml:"axe_script"`
	// ScreenshotDir receives failure screenshots.
	ScreenshotDir string `toml:"screenshot_dir"`

	Waits Waits `toml:"waits"`
}

// Waits holds the suite's named timeout profiles.
type Waits struct {
	Default  ProfileConfig `toml:"default"`
	Short    ProfileConfig `toml:"short"`
	Long     ProfileConfig `toml:"long"`
	SlowPoll ProfileConfig `toml:"slow_poll"`
}

// ProfileConfig is the on-disk form of a wait.Profile.
type ProfileConfig struct {
	Timeout  duration `toml:"timeout"`
	Interval duration `toml:"interval"`
}

// Profile converts to the wait package's value type.
func (p ProfileConfig) Profile() wait.Profile {
	return wait.Profile{Timeout: time.Duration(p.Timeout), Interval: time.Duration(p.Interval)}
}

// duration unmarshals TOML strings like "500ms" or "10s".
type duration time.Duration

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		BaseURL:       "http://localhost:8080",
		Browser:       BrowserChrome,
		DriverPath:    "vendor/chromedriver",
		DriverPort:    9515,
		Headless:      true,
		ScreenshotDir: "screenshots",
		Waits: Waits{
			Default:  fromProfile(wait.Default),
			Short:    fromProfile(wait.Short),
			Long:     fromProfile(wait.Long),
			SlowPoll: fromProfile(wait.SlowPoll),
		},
	}
}

func fromProfile(p wait.Profile) ProfileConfig {
	return ProfileConfig{Timeout: duration(p.Timeout), Interval: duration(p.Interval)}
}

// Load reads the TOML file at path, applies STOREWALK_* environment
// overrides, and validates the result. A missing file is not an error; the
// defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	FromEnv(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv applies STOREWALK_* overrides in place. Unset variables leave the
// existing values alone.
func FromEnv(cfg *Config) {
	if v := os.Getenv("STOREWALK_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("STOREWALK_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STOREWALK_BROWSER"); v != "" {
		cfg.Browser = v
	}
	if v := os.Getenv("STOREWALK_BROWSER_PATH"); v != "" {
		cfg.BrowserPath = v
	}
	if v := os.Getenv("STOREWALK_DRIVER_PATH"); v != "" {
		cfg.DriverPath = v
	}
	if v := os.Getenv("STOREWALK_DRIVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.DriverPort = port
		}
	}
	// HEADLESS=false runs with a visible browser for debugging.
	if v := os.Getenv("HEADLESS"); v != "" {
		cfg.Headless = v != "false"
	}
}

func (c *Config) validate() error {
	switch c.Browser {
	case BrowserChrome, BrowserFirefox:
	default:
		return fmt.Errorf("config: unsupported browser %q", c.Browser)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required")
	}
	for name, p := range map[string]ProfileConfig{
		"default":   c.Waits.Default,
		"short":     c.Waits.Short,
		"long":      c.Waits.Long,
		"slow_poll": c.Waits.SlowPoll,
	} {
		if p.Interval <= 0 {
			return fmt.Errorf("config: waits.%s.interval must be positive", name)
		}
		if p.Timeout < 0 {
			return fmt.Errorf("config: waits.%s.timeout must be non-negative", name)
		}
	}
	return nil
}

// API returns the API base URL, falling back to the storefront base URL.
func (c *Config) API() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return c.BaseURL
}
