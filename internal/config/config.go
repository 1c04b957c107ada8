// Package config loads the patcher configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/eternalmods/eternalpatcher/internal/checksum"
	"github.com/eternalmods/eternalpatcher/internal/patch"
	"github.com/eternalmods/eternalpatcher/internal/update"
)

const (
	// DefaultDefinitionsPath is where the definitions file is read from and
	// downloaded to.
	DefaultDefinitionsPath = "EternalPatcher.def"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultBackupSuffix is appended to the executable path for backups.
	DefaultBackupSuffix = ".bak"
)

// Config is the top-level patcher configuration. It is populated from a
// YAML or TOML file via ParseConfig.
type Config struct {
	// DefinitionsPath is the local definitions file.
	// Default: EternalPatcher.def
	DefinitionsPath string `yaml:"definitions_path" toml:"definitions_path"`

	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level" toml:"log_level"`

	// Checksum names the content hash the definitions file carries.
	// Default: "md5"
	Checksum string `yaml:"checksum" toml:"checksum"`

	Update update.Config `yaml:"update" toml:"update"`
	Patch  patch.Config  `yaml:"patch" toml:"patch"`
	Backup BackupConfig  `yaml:"backup" toml:"backup"`
}

// BackupConfig controls the copy made before an executable is patched.
type BackupConfig struct {
	// Enabled makes `patch` copy the executable before writing to it.
	Enabled bool `yaml:"enabled" toml:"enabled"`

	// Suffix is appended to the executable path to name the backup.
	// Default: ".bak"
	Suffix string `yaml:"suffix" toml:"suffix"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.DefinitionsPath == "" {
		c.DefinitionsPath = DefaultDefinitionsPath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Checksum == "" {
		c.Checksum = string(checksum.MD5)
	}
	if c.Backup.Suffix == "" {
		c.Backup.Suffix = DefaultBackupSuffix
	}
	c.Update.ApplyDefaults()
	c.Patch.ApplyDefaults()
}

// Validate checks that values are acceptable. The update section is only
// validated when a server is configured; commands that need it validate it
// themselves.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q (must be debug, info, warn or error)", c.LogLevel)
	}
	if _, err := checksum.ParseAlgorithm(c.Checksum); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if strings.ContainsAny(c.Backup.Suffix, `/\`) {
		return fmt.Errorf("config: backup suffix %q must not contain path separators", c.Backup.Suffix)
	}
	if err := c.Patch.Validate(); err != nil {
		return err
	}
	if c.Update.ServerURL != "" {
		if err := c.Update.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Algorithm returns the configured checksum algorithm.
func (c *Config) Algorithm() checksum.Algorithm {
	alg, err := checksum.ParseAlgorithm(c.Checksum)
	if err != nil {
		return checksum.MD5
	}
	return alg
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ParseConfig reads a configuration file and returns a Config. Files ending
// in .toml are decoded as TOML, everything else as YAML. A missing file
// yields the defaults. It applies defaults and validates the configuration.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
