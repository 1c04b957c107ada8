package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eternalmods/eternalpatcher/internal/checksum"
	"github.com/eternalmods/eternalpatcher/internal/patch"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return p
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.DefinitionsPath != DefaultDefinitionsPath {
		t.Errorf("DefinitionsPath = %q, want %q", cfg.DefinitionsPath, DefaultDefinitionsPath)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.Algorithm() != checksum.MD5 {
		t.Errorf("Algorithm() = %q, want %q", cfg.Algorithm(), checksum.MD5)
	}
	if cfg.Backup.Suffix != DefaultBackupSuffix {
		t.Errorf("Backup.Suffix = %q, want %q", cfg.Backup.Suffix, DefaultBackupSuffix)
	}
	if cfg.Patch.BlockSize != patch.DefaultBlockSize {
		t.Errorf("Patch.BlockSize = %d, want %d", cfg.Patch.BlockSize, patch.DefaultBlockSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil for defaults", err)
	}
}

func TestParseConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := ParseConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DefinitionsPath != DefaultDefinitionsPath {
		t.Errorf("DefinitionsPath = %q, want %q", cfg.DefinitionsPath, DefaultDefinitionsPath)
	}
}

func TestParseConfig_ValidYAML(t *testing.T) {
	path := writeTemp(t, "config.yaml", `
definitions_path: /opt/patcher/EternalPatcher.def
log_level: debug
checksum: sha256
update:
  server_url: "https://defs.example.com"
  version_tag: v6
  request_timeout: 45s
patch:
  block_size: 4096
backup:
  enabled: true
  suffix: .orig
`)
	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.DefinitionsPath != "/opt/patcher/EternalPatcher.def" {
		t.Errorf("DefinitionsPath = %q", cfg.DefinitionsPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Algorithm() != checksum.SHA256 {
		t.Errorf("Algorithm() = %q, want %q", cfg.Algorithm(), checksum.SHA256)
	}
	if cfg.Update.ServerURL != "https://defs.example.com" {
		t.Errorf("Update.ServerURL = %q", cfg.Update.ServerURL)
	}
	if cfg.Update.VersionTag != "v6" {
		t.Errorf("Update.VersionTag = %q, want %q", cfg.Update.VersionTag, "v6")
	}
	if cfg.Update.RequestTimeout != 45*time.Second {
		t.Errorf("Update.RequestTimeout = %v, want 45s", cfg.Update.RequestTimeout)
	}
	if cfg.Patch.BlockSize != 4096 {
		t.Errorf("Patch.BlockSize = %d, want 4096", cfg.Patch.BlockSize)
	}
	if !cfg.Backup.Enabled || cfg.Backup.Suffix != ".orig" {
		t.Errorf("Backup = %+v, want enabled with suffix .orig", cfg.Backup)
	}
}

func TestParseConfig_ValidTOML(t *testing.T) {
	path := writeTemp(t, "config.toml", `
log_level = "warn"
checksum = "blake2b"

[update]
server_url = "192.0.2.10"
connect_timeout = "5s"

[patch]
block_size = 512
`)
	cfg, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
	if cfg.Algorithm() != checksum.BLAKE2b {
		t.Errorf("Algorithm() = %q, want %q", cfg.Algorithm(), checksum.BLAKE2b)
	}
	if cfg.Update.ServerURL != "192.0.2.10" {
		t.Errorf("Update.ServerURL = %q", cfg.Update.ServerURL)
	}
	if cfg.Update.ConnectTimeout != 5*time.Second {
		t.Errorf("Update.ConnectTimeout = %v, want 5s", cfg.Update.ConnectTimeout)
	}
	if cfg.Patch.BlockSize != 512 {
		t.Errorf("Patch.BlockSize = %d, want 512", cfg.Patch.BlockSize)
	}
	if cfg.DefinitionsPath != DefaultDefinitionsPath {
		t.Errorf("DefinitionsPath = %q, want default", cfg.DefinitionsPath)
	}
}

func TestParseConfig_InvalidSyntax(t *testing.T) {
	if _, err := ParseConfig(writeTemp(t, "config.yaml", "log_level: [unclosed")); err == nil {
		t.Error("ParseConfig(bad yaml): want error, got nil")
	}
	if _, err := ParseConfig(writeTemp(t, "config.toml", "log_level = ")); err == nil {
		t.Error("ParseConfig(bad toml): want error, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log_level"},
		{"bad checksum", func(c *Config) { c.Checksum = "crc32" }, "unknown algorithm"},
		{"bad suffix", func(c *Config) { c.Backup.Suffix = "/tmp/x" }, "path separators"},
		{"bad block size", func(c *Config) { c.Patch.BlockSize = -1 }, "BlockSize"},
		{"bad update url", func(c *Config) { c.Update.ServerURL = "ftp://x" }, "scheme"},
		{"no update server is fine", func(c *Config) { c.Update.ServerURL = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}
