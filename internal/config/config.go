package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values applied when fields are absent from both the config file
// and the environment.
const (
	DefaultListen   = ":8080"
	DefaultLogLevel = "info"
)

// Environment variables read by Load. They take precedence over the file.
const (
	EnvBoxAddress = "BOX_IP"
	EnvBoxName    = "BOX_NAME"
	EnvLogLevel   = "LOG_LEVEL"
)

// Config is the process-wide configuration. It is loaded once at startup and
// passed by value into the components that need it.
type Config struct {
	// Box identifies the polled device.
	Box Device `yaml:"box"`

	// Listen is the TCP address the /metrics endpoint is served on.
	Listen string `yaml:"listen"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`
}

// Device describes the box whose status page is scraped.
type Device struct {
	// Address is an IP, host, host:port or a full http(s) URL.
	Address string `yaml:"address"`

	// Name is the human-readable label rendered into every series.
	// Defaults to Address.
	Name string `yaml:"name"`
}

// Label returns the value of the box label: Name if set, otherwise Address.
func (d Device) Label() string {
	if name := strings.TrimSpace(d.Name); name != "" {
		return name
	}
	return strings.TrimSpace(d.Address)
}

// BaseURL resolves Address into an absolute URL. Bare hosts get the http
// scheme; bare IPv6 literals are bracketed.
func (d Device) BaseURL() (*url.URL, error) {
	raw := strings.TrimSpace(d.Address)
	if raw == "" {
		return nil, fmt.Errorf("box address is required")
	}
	if ip := net.ParseIP(raw); ip != nil && ip.To4() == nil {
		raw = "[" + raw + "]"
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("box address %q: %w", d.Address, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("box address %q: unsupported scheme %q", d.Address, u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("box address %q: missing host", d.Address)
	}
	return u, nil
}

// Level returns the parsed log level. Validated configs never fail here;
// an unparseable value falls back to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load builds the configuration from the optional YAML file at path and the
// environment. An empty path skips the file. Environment variables override
// file values.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Listen:   DefaultListen,
		LogLevel: DefaultLogLevel,
	}
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBoxAddress)); v != "" {
		cfg.Box.Address = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBoxName)); v != "" {
		cfg.Box.Name = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
}

// validate checks required fields and structural constraints.
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Box.Address) == "" {
		return fmt.Errorf("box.address is required (set %s)", EnvBoxAddress)
	}
	if _, err := cfg.Box.BaseURL(); err != nil {
		return err
	}
	if cfg.Listen == "" {
		return fmt.Errorf("listen must not be empty")
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}
