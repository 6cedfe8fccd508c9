package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables
// and overridable by command-line flags.
type Config struct {
	// Device selection (case-insensitive name substrings; empty = default)
	InputDevice  string
	OutputDevice string

	// Session format
	SampleRate int // Hz
	Channels   int // interleaved channels per frame

	// Time-shift behavior
	BufferSeconds int     // retained history
	BaseDelayMs   float64 // live-mode delay behind capture (0 = minimum)
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		InputDevice:  envStr("DRIFT_INPUT_DEVICE", ""),
		OutputDevice: envStr("DRIFT_OUTPUT_DEVICE", ""),

		SampleRate: envInt("DRIFT_SAMPLE_RATE", 48000),
		Channels:   envInt("DRIFT_CHANNELS", 2),

		BufferSeconds: envInt("DRIFT_BUFFER_SECONDS", 60),
		BaseDelayMs:   envFloat("DRIFT_BASE_DELAY_MS", 0),
	}
}

// Validate rejects configurations the engine cannot construct a session from.
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels <= 0 {
		return fmt.Errorf("channel count must be positive, got %d", c.Channels)
	}
	if c.BufferSeconds <= 0 {
		return fmt.Errorf("buffer seconds must be positive, got %d", c.BufferSeconds)
	}
	if c.BaseDelayMs < 0 {
		return fmt.Errorf("base delay must not be negative, got %v", c.BaseDelayMs)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
