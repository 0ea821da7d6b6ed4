package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FeedConfig holds the upstream content feed endpoints.
type FeedConfig struct {
	// APIURL is the base URL for the schedule and livestream feeds.
	APIURL string `yaml:"api_url" json:"api_url"`
	// SiteURL is the public site base; canonical link paths from the feed
	// are appended to it to build watch links in event descriptions.
	SiteURL string `yaml:"site_url" json:"site_url"`
}

// CalendarsConfig maps channel slugs to destination calendar ids.
//
// Adding a channel is a data change here, not a code change anywhere else.
type CalendarsConfig struct {
	// Channels maps a channel slug to its per-channel calendar id.
	Channels map[string]string `yaml:"channels" json:"channels"`
	// Default is the cross-channel calendar id, also used as the fallback
	// for channel slugs missing from Channels.
	Default string `yaml:"default" json:"default"`
}

// Resolve returns the per-channel calendar id for a slug, falling back to
// the default calendar for unrecognized (or unmapped) slugs.
func (c CalendarsConfig) Resolve(slug string) string {
	if id, ok := c.Channels[slug]; ok && id != "" {
		return id
	}
	return c.Default
}

// GoogleConfig holds destination-service credential material.
type GoogleConfig struct {
	// CredentialsFile is the path to the service-account JSON key.
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

// LogsConfig holds the file sinks for the application and error logs.
type LogsConfig struct {
	Application string `yaml:"application" json:"application"`
	Error       string `yaml:"error" json:"error"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the status endpoint (daemon
	// mode only).
	Listen string `yaml:"listen" json:"listen"`

	// RefreshCron is a cron-style schedule string (e.g. "0 * * * *")
	// driving recurring sync runs in daemon mode.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	Feed      FeedConfig      `yaml:"feed" json:"feed"`
	Calendars CalendarsConfig `yaml:"calendars" json:"calendars"`
	Google    GoogleConfig    `yaml:"google" json:"google"`
	Logs      LogsConfig      `yaml:"logs" json:"logs"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      "127.0.0.1:8080",
		RefreshCron: "0 * * * *",
		Feed: FeedConfig{
			APIURL:  "https://svod-be.roosterteeth.com/api/v1",
			SiteURL: "https://roosterteeth.com",
		},
		Calendars: CalendarsConfig{
			Channels: map[string]string{},
			Default:  "",
		},
		Google: GoogleConfig{
			CredentialsFile: "./credentials.json",
		},
		Logs: LogsConfig{
			Application: "./application.log",
			Error:       "./error.log",
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 * * * *"
	}
	if c.Feed.APIURL == "" {
		c.Feed.APIURL = "https://svod-be.roosterteeth.com/api/v1"
	}
	if c.Feed.SiteURL == "" {
		c.Feed.SiteURL = "https://roosterteeth.com"
	}
	if c.Calendars.Channels == nil {
		c.Calendars.Channels = map[string]string{}
	}
	if c.Google.CredentialsFile == "" {
		c.Google.CredentialsFile = "./credentials.json"
	}
	if c.Logs.Application == "" {
		c.Logs.Application = "./application.log"
	}
	if c.Logs.Error == "" {
		c.Logs.Error = "./error.log"
	}
}

// ApplyEnv overlays environment-supplied values onto the config. The
// deployment environment wins over the file for endpoints and credential
// material; the channel map stays file-driven.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("RT_API_URL"); v != "" {
		c.Feed.APIURL = v
	}
	if v := os.Getenv("RT_SITE_URL"); v != "" {
		c.Feed.SiteURL = v
	}
	if v := os.Getenv("CALENDAR_ALL"); v != "" {
		c.Calendars.Default = v
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Google.CredentialsFile = v
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600 (the file may carry
//     calendar ids and credential paths).
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".rtcalsync-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
