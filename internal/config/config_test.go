package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestProfilesAreValid(t *testing.T) {
	for _, name := range Profiles() {
		t.Run(name, func(t *testing.T) {
			cfg, err := ProfileConfig(name)
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("profile %s invalid: %v", name, err)
			}
		})
	}
}

func TestUnknownProfile(t *testing.T) {
	if _, err := ProfileConfig("turbo"); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestValidateCatchesBadValues(t *testing.T) {
	var tests = []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold", func(c *Config) { c.Detection.Threshold = 0 }},
		{"scan height", func(c *Config) { c.Detection.Scan.Height = 0 }},
		{"below ground", func(c *Config) { c.Detection.Scan.BelowGround = c.Detection.Scan.Height }},
		{"poll interval", func(c *Config) { c.Timing.PollInterval = 0 }},
		{"speed cap", func(c *Config) { c.Gate.SpeedCap = 0.5 }},
		{"coefficient", func(c *Config) { c.Gate.JumpCoefficient = 0 }},
		{"capture backend", func(c *Config) { c.Capture.Backend = "webcam" }},
		{"input backend", func(c *Config) { c.Input.Backend = "midi" }},
		{"key", func(c *Config) { c.Input.Key = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestInitConfigFileOverridesProfile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`profile: extension
detection:
  threshold: 120
timing:
  poll_interval: 75ms
input:
  backend: browser
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := InitConfig(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile != "extension" {
		t.Fatalf("profile = %q, want extension", cfg.Profile)
	}
	if cfg.Detection.Threshold != 120 {
		t.Fatalf("threshold = %d, want 120", cfg.Detection.Threshold)
	}
	if cfg.Timing.PollInterval != 75*time.Millisecond {
		t.Fatalf("poll interval = %v, want 75ms", cfg.Timing.PollInterval)
	}
	// не заданное в файле берётся из профиля
	if cfg.Timing.FallbackPeriod != 1500*time.Millisecond {
		t.Fatalf("fallback period = %v, want 1.5s", cfg.Timing.FallbackPeriod)
	}
	if cfg.Detection.Player.Detect {
		t.Fatal("extension profile must not detect the player")
	}
	if cfg.Detection.Scan.BelowGround != 10 {
		t.Fatalf("below ground = %d, want 10", cfg.Detection.Scan.BelowGround)
	}
	if cfg.Input.Backend != "browser" {
		t.Fatalf("input backend = %q, want browser", cfg.Input.Backend)
	}
}

func TestInitConfigWithoutFileUsesDefaultProfile(t *testing.T) {
	cfg, err := InitConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Profile != DefaultProfile {
		t.Fatalf("profile = %q, want %q", cfg.Profile, DefaultProfile)
	}
	if cfg.Gate.JumpCoefficient != 0.3 {
		t.Fatalf("coefficient = %v, want 0.3", cfg.Gate.JumpCoefficient)
	}
}
