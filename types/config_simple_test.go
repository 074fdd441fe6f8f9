package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

func validAppConfig() AppConfig {
	return AppConfig{
		Den: DenConfig{
			RootDir:   "/home/user/WOLF_AI",
			BridgeDir: "/home/user/WOLF_AI/bridge",
			LogsDir:   "/home/user/WOLF_AI/logs",
		},
		Data: DataConfig{
			File:   "hunts.json",
			Format: "json",
		},
		Daemon: DaemonConfig{
			IntervalSeconds: 5,
			GraceSeconds:    5,
		},
		Hunt: HuntConfig{
			RetryLimit:     3,
			TimeoutSeconds: 300,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8000,
			Key:  "wolf-api-key",
		},
		Memory: MemoryConfig{
			Backend: "json",
		},
	}
}

func TestAppConfig_Structure(t *testing.T) {
	config := validAppConfig()

	// Test basic structure
	if config.Den.RootDir != "/home/user/WOLF_AI" {
		t.Errorf("Den.RootDir mismatch: got %q, want %q", config.Den.RootDir, "/home/user/WOLF_AI")
	}
	if config.Data.Format != "json" {
		t.Errorf("Data.Format mismatch: got %q, want %q", config.Data.Format, "json")
	}
	if config.API.Port != 8000 {
		t.Errorf("API.Port mismatch: got %d, want %d", config.API.Port, 8000)
	}
	if config.Memory.Backend != "json" {
		t.Errorf("Memory.Backend mismatch: got %q, want %q", config.Memory.Backend, "json")
	}
}

func TestDataConfig_Structure(t *testing.T) {
	config := DataConfig{
		File:   "hunts.yaml",
		Format: "yaml",
	}

	if config.File != "hunts.yaml" {
		t.Errorf("File mismatch: got %q, want %q", config.File, "hunts.yaml")
	}
	if config.Format != "yaml" {
		t.Errorf("Format mismatch: got %q, want %q", config.Format, "yaml")
	}
}

func TestAppConfig_Validation(t *testing.T) {
	v := validator.New()

	if err := v.Struct(validAppConfig()); err != nil {
		t.Fatalf("valid config failed validation: %v", err)
	}

	bad := validAppConfig()
	bad.Data.Format = "xml"
	if err := v.Struct(bad); err == nil {
		t.Error("expected validation error for data.format=xml")
	}

	bad = validAppConfig()
	bad.Memory.Backend = "redis"
	if err := v.Struct(bad); err == nil {
		t.Error("expected validation error for memory.backend=redis")
	}

	bad = validAppConfig()
	bad.API.Port = 70000
	if err := v.Struct(bad); err == nil {
		t.Error("expected validation error for api.port=70000")
	}

	bad = validAppConfig()
	bad.Daemon.IntervalSeconds = 0
	if err := v.Struct(bad); err == nil {
		t.Error("expected validation error for daemon.intervalSeconds=0")
	}

	bad = validAppConfig()
	bad.Den.RootDir = ""
	if err := v.Struct(bad); err == nil {
		t.Error("expected validation error for empty den.rootDir")
	}
}
