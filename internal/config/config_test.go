package config

import (
	"os"
	"testing"
)

var envVars = []string{
	"DRIFT_INPUT_DEVICE", "DRIFT_OUTPUT_DEVICE",
	"DRIFT_SAMPLE_RATE", "DRIFT_CHANNELS",
	"DRIFT_BUFFER_SECONDS", "DRIFT_BASE_DELAY_MS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envVars {
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	if cfg.InputDevice != "" {
		t.Errorf("InputDevice = %q, want empty (system default)", cfg.InputDevice)
	}
	if cfg.OutputDevice != "" {
		t.Errorf("OutputDevice = %q, want empty (system default)", cfg.OutputDevice)
	}
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", cfg.SampleRate)
	}
	if cfg.Channels != 2 {
		t.Errorf("Channels = %d, want 2", cfg.Channels)
	}
	if cfg.BufferSeconds != 60 {
		t.Errorf("BufferSeconds = %d, want 60", cfg.BufferSeconds)
	}
	if cfg.BaseDelayMs != 0 {
		t.Errorf("BaseDelayMs = %v, want 0", cfg.BaseDelayMs)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRIFT_INPUT_DEVICE", "loopback")
	t.Setenv("DRIFT_SAMPLE_RATE", "44100")
	t.Setenv("DRIFT_BUFFER_SECONDS", "120")
	t.Setenv("DRIFT_BASE_DELAY_MS", "250.5")

	cfg := Load()
	if cfg.InputDevice != "loopback" {
		t.Errorf("InputDevice = %q, want loopback", cfg.InputDevice)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.BufferSeconds != 120 {
		t.Errorf("BufferSeconds = %d, want 120", cfg.BufferSeconds)
	}
	if cfg.BaseDelayMs != 250.5 {
		t.Errorf("BaseDelayMs = %v, want 250.5", cfg.BaseDelayMs)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DRIFT_SAMPLE_RATE", "not-a-number")
	t.Setenv("DRIFT_BASE_DELAY_MS", "fast")

	cfg := Load()
	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want default on malformed env", cfg.SampleRate)
	}
	if cfg.BaseDelayMs != 0 {
		t.Errorf("BaseDelayMs = %v, want default on malformed env", cfg.BaseDelayMs)
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	good := Load()
	if err := good.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }},
		{"negative channels", func(c *Config) { c.Channels = -1 }},
		{"zero buffer", func(c *Config) { c.BufferSeconds = 0 }},
		{"negative delay", func(c *Config) { c.BaseDelayMs = -5 }},
	}
	for _, tt := range tests {
		cfg := Load()
		tt.mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", tt.name)
		}
	}
}
