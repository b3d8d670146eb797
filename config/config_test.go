package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.MpvPath != "mpv" {
		t.Errorf("MpvPath = %q, want mpv", cfg.MpvPath)
	}
	if cfg.ToolTimeout != 10*time.Minute {
		t.Errorf("ToolTimeout = %v, want 10m", cfg.ToolTimeout)
	}
	if cfg.SeekStep != 5 {
		t.Errorf("SeekStep = %v, want 5", cfg.SeekStep)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("MPV_PATH", "/opt/mpv/bin/mpv")
	t.Setenv("TOOL_TIMEOUT", "2m")
	t.Setenv("SEEK_STEP", "10")
	t.Setenv("RATE_LIMIT", "2")

	cfg := LoadConfig()

	if cfg.MpvPath != "/opt/mpv/bin/mpv" {
		t.Errorf("MpvPath = %q", cfg.MpvPath)
	}
	if cfg.ToolTimeout != 2*time.Minute {
		t.Errorf("ToolTimeout = %v, want 2m", cfg.ToolTimeout)
	}
	if cfg.SeekStep != 10 {
		t.Errorf("SeekStep = %v, want 10", cfg.SeekStep)
	}
	if cfg.RateLimit != 2 {
		t.Errorf("RateLimit = %d, want 2", cfg.RateLimit)
	}
}

func TestMalformedEnvFallsBack(t *testing.T) {
	t.Setenv("TOOL_TIMEOUT", "not-a-duration")
	t.Setenv("SEEK_STEP", "not-a-float")

	cfg := LoadConfig()

	if cfg.ToolTimeout != 10*time.Minute {
		t.Errorf("ToolTimeout = %v, want default", cfg.ToolTimeout)
	}
	if cfg.SeekStep != 5 {
		t.Errorf("SeekStep = %v, want default", cfg.SeekStep)
	}
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.SocketPath = ""
	if err := ValidateConfig(cfg); err == nil {
		t.Error("empty socket path should fail validation")
	}

	cfg = LoadConfig()
	cfg.SeekStep = 0
	if err := ValidateConfig(cfg); err == nil {
		t.Error("zero seek step should fail validation")
	}
}
