// Package agent provides the Tracekit Go SDK entry point.
package agent

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// TraceContext supplies the current trace and span IDs as opaque
// strings, empty when there is no active trace. The tracing pipeline
// itself lives outside this SDK.
type TraceContext func() (traceID, spanID string)

// Config holds the SDK configuration.
type Config struct {
	APIKey          string
	ServiceName     string
	BaseURL         string
	LiveURL         string // optional websocket endpoint for live breakpoint pushes
	Environment     string
	RefreshInterval time.Duration
	Debug           bool
	InstanceID      string
	TraceContext    TraceContext
}

// fileConfig is the TOML shape of an optional tracekit.toml.
type fileConfig struct {
	APIKey                 string `toml:"api_key"`
	ServiceName            string `toml:"service_name"`
	BaseURL                string `toml:"base_url"`
	LiveURL                string `toml:"live_url"`
	Environment            string `toml:"environment"`
	RefreshIntervalSeconds int    `toml:"refresh_interval_seconds"`
	Debug                  bool   `toml:"debug"`
}

// NewConfig builds a configuration from environment variables, then
// applies options in order. Later options win, so WithConfigFile
// followed by explicit setters behaves as expected.
func NewConfig(options ...ConfigOption) *Config {
	cfg := &Config{
		APIKey:          os.Getenv("TRACEKIT_API_KEY"),
		ServiceName:     os.Getenv("TRACEKIT_SERVICE_NAME"),
		BaseURL:         getEnvOrDefault("TRACEKIT_BASE_URL", "https://app.tracekit.dev"),
		LiveURL:         os.Getenv("TRACEKIT_LIVE_URL"),
		Environment:     getEnvOrDefault("TRACEKIT_ENVIRONMENT", "production"),
		RefreshInterval: time.Duration(getEnvIntOrDefault("TRACEKIT_REFRESH_SECONDS", 30)) * time.Second,
		Debug:           getEnvOrDefault("TRACEKIT_DEBUG", "false") == "true",
		InstanceID:      "agent-" + uuid.NewString(),
	}

	for _, opt := range options {
		opt(cfg)
	}

	return cfg
}

// Validate reports whether the configuration is usable.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required: set TRACEKIT_API_KEY or use WithAPIKey")
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required: set TRACEKIT_SERVICE_NAME or use WithServiceName")
	}
	return nil
}

// ConfigOption mutates Config during NewConfig.
type ConfigOption func(*Config)

// WithAPIKey sets the backend API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) { c.APIKey = key }
}

// WithServiceName sets the service name breakpoints are scoped to.
func WithServiceName(name string) ConfigOption {
	return func(c *Config) { c.ServiceName = name }
}

// WithBaseURL sets the backend API root.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) { c.BaseURL = url }
}

// WithLiveURL enables the websocket live-update channel.
func WithLiveURL(url string) ConfigOption {
	return func(c *Config) { c.LiveURL = url }
}

// WithEnvironment sets the deployment environment name.
func WithEnvironment(env string) ConfigOption {
	return func(c *Config) {
		if env != "" {
			c.Environment = env
		}
	}
}

// WithRefreshInterval sets the breakpoint polling cadence.
func WithRefreshInterval(d time.Duration) ConfigOption {
	return func(c *Config) {
		if d > 0 {
			c.RefreshInterval = d
		}
	}
}

// WithDebug enables debug logging.
func WithDebug(debug bool) ConfigOption {
	return func(c *Config) { c.Debug = debug }
}

// WithTraceContext plugs in the trace/span ID source.
func WithTraceContext(tc TraceContext) ConfigOption {
	return func(c *Config) { c.TraceContext = tc }
}

// WithConfigFile loads settings from a TOML file. Missing files are
// ignored so a checked-in default path is harmless; malformed files are
// reported once and otherwise ignored.
func WithConfigFile(path string) ConfigOption {
	return func(c *Config) {
		data, err := os.ReadFile(path)
		if err != nil {
			return
		}

		var fc fileConfig
		if err := toml.Unmarshal(data, &fc); err != nil {
			fmt.Fprintf(os.Stderr, "[Tracekit] Ignoring malformed config file %s: %v\n", path, err)
			return
		}

		if fc.APIKey != "" {
			c.APIKey = fc.APIKey
		}
		if fc.ServiceName != "" {
			c.ServiceName = fc.ServiceName
		}
		if fc.BaseURL != "" {
			c.BaseURL = fc.BaseURL
		}
		if fc.LiveURL != "" {
			c.LiveURL = fc.LiveURL
		}
		if fc.Environment != "" {
			c.Environment = fc.Environment
		}
		if fc.RefreshIntervalSeconds > 0 {
			c.RefreshInterval = time.Duration(fc.RefreshIntervalSeconds) * time.Second
		}
		if fc.Debug {
			c.Debug = true
		}
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
