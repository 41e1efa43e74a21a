package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.App.Name != "sidelock" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "sidelock")
	}
	if cfg.Lock.Suffix != ".lock" {
		t.Errorf("Lock.Suffix = %q, want %q", cfg.Lock.Suffix, ".lock")
	}
	if cfg.Lock.StaleTTLMinutes != 0 {
		t.Errorf("Lock.StaleTTLMinutes = %d, want 0", cfg.Lock.StaleTTLMinutes)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestDefaultValidates(t *testing.T) {
	if errs := Default().Validate(); len(errs) != 0 {
		t.Errorf("Default() config should validate, got errors: %v", errs)
	}
}

func TestStaleTTL(t *testing.T) {
	cfg := LockConfig{StaleTTLMinutes: 90}
	if got := cfg.StaleTTL(); got != 90*time.Minute {
		t.Errorf("StaleTTL() = %v, want %v", got, 90*time.Minute)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Lock.Suffix != ".lock" {
		t.Errorf("Lock.Suffix = %q, want %q", cfg.Lock.Suffix, ".lock")
	}
}

func TestLoadOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("lock.stale_ttl_minutes", 30)
	viper.Set("app.name", "myeditor")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Lock.StaleTTLMinutes != 30 {
		t.Errorf("Lock.StaleTTLMinutes = %d, want 30", cfg.Lock.StaleTTLMinutes)
	}
	if cfg.App.Name != "myeditor" {
		t.Errorf("App.Name = %q, want %q", cfg.App.Name, "myeditor")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty app name",
			mutate:    func(c *Config) { c.App.Name = "" },
			wantField: "app.name",
		},
		{
			name:      "suffix without dot",
			mutate:    func(c *Config) { c.Lock.Suffix = "lock" },
			wantField: "lock.suffix",
		},
		{
			name:      "suffix with separator",
			mutate:    func(c *Config) { c.Lock.Suffix = ".foo/bar" },
			wantField: "lock.suffix",
		},
		{
			name:      "negative ttl",
			mutate:    func(c *Config) { c.Lock.StaleTTLMinutes = -1 },
			wantField: "lock.stale_ttl_minutes",
		},
		{
			name:      "bad glob",
			mutate:    func(c *Config) { c.Scan.Pattern = "[" },
			wantField: "scan.pattern",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %q in %v", tt.wantField, errs)
			}
		})
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: 2, Message: "worse"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("Error() = %q, want count prefix", msg)
	}
	if !strings.Contains(msg, "a: bad") || !strings.Contains(msg, "b: worse") {
		t.Errorf("Error() = %q, missing individual errors", msg)
	}
}
