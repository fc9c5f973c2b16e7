package config

import (
	"strings"
	"testing"
)

func TestValidate_ValidConfig_ReturnsNil(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for valid config", err)
	}
}

func TestValidate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }, "log_level"},
		{"zero log size", func(c *Config) { c.LogMaxSizeMB = 0 }, "log_max_size_mb"},
		{"negative backups", func(c *Config) { c.LogMaxBackups = -1 }, "log_max_backups"},
		{"empty suffix", func(c *Config) { c.Fix.OutputSuffix = "" }, "fix.output_suffix"},
		{"suffix with separator", func(c *Config) { c.Fix.OutputSuffix = "/x" }, "fix.output_suffix"},
		{"empty domain", func(c *Config) { c.Fix.CIDDomain = "" }, "fix.cid_domain"},
		{"domain with space", func(c *Config) { c.Fix.CIDDomain = "a b" }, "fix.cid_domain"},
		{"empty prefix", func(c *Config) { c.Fix.HyphenPrefix = "" }, "fix.hyphen_prefix"},
		{"hyphen prefix", func(c *Config) { c.Fix.HyphenPrefix = "-img" }, "fix.hyphen_prefix"},
		{"prefix with symbol", func(c *Config) { c.Fix.HyphenPrefix = "im?g" }, "fix.hyphen_prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			if err == nil {
				t.Fatalf("Validate() expected error for %s", tt.field)
			}
			if !IsValidationError(err) {
				t.Errorf("expected validation error, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention field %q", err.Error(), tt.field)
			}
		})
	}
}

func TestValidate_LogLevelCaseInsensitive(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LogLevel = "DEBUG"
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Fix.CIDDomain = ""
	cfg.Fix.OutputSuffix = ""

	err := Validate(&cfg)
	if err == nil {
		t.Fatal("Validate() expected errors")
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "config validation failed:") {
		t.Errorf("multi-error message should start with summary, got %q", msg)
	}
	if strings.Count(msg, "  - ") != 2 {
		t.Errorf("expected 2 listed errors, got %q", msg)
	}

	if (ValidationErrors{}).Error() != "" {
		t.Error("empty ValidationErrors should render as empty string")
	}
}
