package update

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.VersionTag != DefaultVersionTag {
		t.Errorf("VersionTag = %q, want %q", cfg.VersionTag, DefaultVersionTag)
	}
	if cfg.DefinitionsName != DefaultDefinitionsName {
		t.Errorf("DefinitionsName = %q, want %q", cfg.DefinitionsName, DefaultDefinitionsName)
	}
	if cfg.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", cfg.ConnectTimeout, DefaultConnectTimeout)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, DefaultRequestTimeout)
	}
}

func TestConfig_DefaultsPreserveExisting(t *testing.T) {
	cfg := Config{VersionTag: "v6", RequestTimeout: time.Minute}
	cfg.ApplyDefaults()

	if cfg.VersionTag != "v6" {
		t.Errorf("VersionTag = %q, want %q", cfg.VersionTag, "v6")
	}
	if cfg.RequestTimeout != time.Minute {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, time.Minute)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"missing server", Config{}, "ServerURL is required"},
		{"bad scheme", Config{ServerURL: "ftp://example.com"}, "scheme must be http or https"},
		{"no host", Config{ServerURL: "http://"}, "has no host"},
		{"slash in tag", Config{ServerURL: "example.com", VersionTag: "v1/x"}, "must not contain"},
		{"negative timeout", Config{ServerURL: "example.com", ConnectTimeout: -time.Second}, "must not be negative"},
		{"bare host", Config{ServerURL: "192.0.2.10"}, ""},
		{"https", Config{ServerURL: "https://defs.example.com/patcher/"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_BaseURLNormalization(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"192.0.2.10", "http://192.0.2.10"},
		{"https://defs.example.com/patcher/", "https://defs.example.com/patcher"},
		{" http://example.com ", "http://example.com"},
	}
	for _, tt := range tests {
		cfg := Config{ServerURL: tt.in}
		got, err := cfg.baseURL()
		if err != nil {
			t.Fatalf("baseURL(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("baseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
