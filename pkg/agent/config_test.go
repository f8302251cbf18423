package agent

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithAPIKey("key-123"),
		WithServiceName("billing"),
		WithBaseURL("https://api.example.com"),
		WithEnvironment("staging"),
		WithRefreshInterval(5*time.Second),
		WithDebug(true),
	)

	if cfg.APIKey != "key-123" || cfg.ServiceName != "billing" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.BaseURL != "https://api.example.com" || cfg.Environment != "staging" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.RefreshInterval != 5*time.Second || !cfg.Debug {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.InstanceID == "" {
		t.Error("InstanceID not generated")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (&Config{ServiceName: "svc"}).Validate(); err == nil {
		t.Error("missing API key must fail validation")
	}
	if err := (&Config{APIKey: "k"}).Validate(); err == nil {
		t.Error("missing service name must fail validation")
	}
}

func TestOptionOrdering(t *testing.T) {
	cfg := NewConfig(
		WithEnvironment("staging"),
		WithEnvironment(""), // empty never overrides
		WithRefreshInterval(0),
		WithRefreshInterval(7*time.Second),
	)

	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.RefreshInterval != 7*time.Second {
		t.Errorf("RefreshInterval = %v, want 7s", cfg.RefreshInterval)
	}
}

func TestWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracekit.toml")
	content := `
api_key = "file-key"
service_name = "file-svc"
base_url = "https://file.example.com"
environment = "qa"
refresh_interval_seconds = 11
debug = true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := NewConfig(WithConfigFile(path))
	if cfg.APIKey != "file-key" || cfg.ServiceName != "file-svc" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Environment != "qa" || cfg.RefreshInterval != 11*time.Second || !cfg.Debug {
		t.Errorf("config = %+v", cfg)
	}

	// Explicit options after the file win.
	cfg = NewConfig(WithConfigFile(path), WithAPIKey("explicit"))
	if cfg.APIKey != "explicit" {
		t.Errorf("APIKey = %q, want explicit", cfg.APIKey)
	}
}

func TestWithConfigFileMissingOrBroken(t *testing.T) {
	cfg := NewConfig(WithAPIKey("k"), WithConfigFile("/does/not/exist.toml"))
	if cfg.APIKey != "k" {
		t.Errorf("missing file must be ignored, config = %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg = NewConfig(WithAPIKey("k"), WithConfigFile(path))
	if cfg.APIKey != "k" {
		t.Errorf("broken file must be ignored, config = %+v", cfg)
	}
}
