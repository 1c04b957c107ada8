package update

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultDefinitionsName is the base name of the published definitions files.
	DefaultDefinitionsName = "EternalPatcher"

	// DefaultVersionTag selects the definitions format generation on the server.
	DefaultVersionTag = "v1"

	// DefaultConnectTimeout is the default TCP connect timeout.
	DefaultConnectTimeout = 10 * time.Second

	// DefaultRequestTimeout is the default HTTP request timeout.
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds the configuration for the update Client.
type Config struct {
	// ServerURL is the update server location (required). A bare host is
	// treated as http://<host>.
	ServerURL string `yaml:"server_url" toml:"server_url"`

	// VersionTag is appended to the remote file names, e.g. "v1" selects
	// EternalPatcher_v1.def.
	// Default: "v1"
	VersionTag string `yaml:"version_tag" toml:"version_tag"`

	// DefinitionsName is the remote file base name.
	// Default: "EternalPatcher"
	DefinitionsName string `yaml:"definitions_name" toml:"definitions_name"`

	// ConnectTimeout is the maximum time to wait for a TCP connection.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout" toml:"connect_timeout"`

	// RequestTimeout is the maximum time for a complete request/response cycle.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout" toml:"request_timeout"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.VersionTag == "" {
		c.VersionTag = DefaultVersionTag
	}
	if c.DefinitionsName == "" {
		c.DefinitionsName = DefaultDefinitionsName
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
}

// Validate checks that required fields are set.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("update: config: ServerURL is required")
	}
	if _, err := c.baseURL(); err != nil {
		return err
	}
	if strings.ContainsAny(c.VersionTag+c.DefinitionsName, "/?#") {
		return errors.New("update: config: VersionTag and DefinitionsName must not contain '/', '?' or '#'")
	}
	if c.ConnectTimeout < 0 || c.RequestTimeout < 0 {
		return errors.New("update: config: timeouts must not be negative")
	}
	return nil
}

// baseURL returns the normalized server URL without a trailing slash.
func (c *Config) baseURL() (string, error) {
	raw := strings.TrimSpace(c.ServerURL)
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("update: config: invalid ServerURL %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("update: config: ServerURL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("update: config: ServerURL %q has no host", c.ServerURL)
	}
	return strings.TrimRight(u.String(), "/"), nil
}
