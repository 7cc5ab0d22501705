package shared

import (
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig contains REST endpoint settings.
type ServerConfig struct {
	RestURL string   `toml:"rest_url"`
	Timeout Duration `toml:"timeout"`
}

// SessionConfig controls the session event stream.
type SessionConfig struct {
	EventsPath        string   `toml:"events_path"`
	Reconnect         bool     `toml:"reconnect"`
	ReconnectInterval Duration `toml:"reconnect_interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Duration wraps [time.Duration] so TOML strings like "5s" decode via [time.ParseDuration].
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, string(text), err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeConfig writes config to w as TOML.
func EncodeConfig(w io.Writer, config *Config) error {
	if err := toml.NewEncoder(w).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// Validate checks that the REST URL is absolute and the events path is rooted.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.RestURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: rest_url %q must be an absolute URL", ErrInvalidConfig, c.Server.RestURL)
	}
	if !strings.HasPrefix(c.Session.EventsPath, "/") {
		return fmt.Errorf("%w: events_path %q must start with /", ErrInvalidConfig, c.Session.EventsPath)
	}
	return nil
}

// RestURL returns the configured base URL without a trailing slash.
func (c *Config) RestURL() string {
	return strings.TrimRight(c.Server.RestURL, "/")
}
