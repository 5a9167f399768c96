package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. RERANK_DEMO_SERVER_PORT.
const EnvPrefix = "RERANK_DEMO"

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Model configuration
	Model ModelConfig `mapstructure:"model"`

	// UI configuration
	UI UIConfig `mapstructure:"ui"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Mode            string `mapstructure:"mode"`             // gin mode: debug, release, test
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // in seconds
}

// ModelConfig describes the (simulated) reranking model
type ModelConfig struct {
	Provider  string  `mapstructure:"provider"`
	Name      string  `mapstructure:"name"`
	TopScore  float64 `mapstructure:"top_score"`
	ScoreStep float64 `mapstructure:"score_step"`
}

// UIConfig holds web UI settings
type UIConfig struct {
	Language    string `mapstructure:"language"` // en, zh
	MaxTopK     int    `mapstructure:"max_top_k"`
	DefaultTopK int    `mapstructure:"default_top_k"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	// ParquetPath enables the error log sink when non-empty.
	ParquetPath string `mapstructure:"parquet_path"`
	BatchSize   int    `mapstructure:"batch_size"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v, applying defaults and environment
// overrides.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return config, nil
}

// SetDefaults sets default configuration values
func SetDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")

	// Server defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8761)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10)

	// Model defaults
	v.SetDefault("model.provider", "placeholder")
	v.SetDefault("model.name", "BGE-Reranker-Large")
	v.SetDefault("model.top_score", 0.95)
	v.SetDefault("model.score_step", 0.05)

	// UI defaults
	v.SetDefault("ui.language", "en")
	v.SetDefault("ui.max_top_k", 20)
	v.SetDefault("ui.default_top_k", 5)

	// Telemetry defaults
	v.SetDefault("telemetry.parquet_path", "")
	v.SetDefault("telemetry.batch_size", 100)
}

// Validate checks the values the server relies on
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %q", c.Server.Mode)
	}
	if c.UI.MaxTopK < 1 {
		return fmt.Errorf("ui.max_top_k must be at least 1, got %d", c.UI.MaxTopK)
	}
	if c.UI.DefaultTopK < 1 || c.UI.DefaultTopK > c.UI.MaxTopK {
		return fmt.Errorf("ui.default_top_k must be within [1, %d], got %d", c.UI.MaxTopK, c.UI.DefaultTopK)
	}
	if strings.TrimSpace(c.Model.Name) == "" {
		return fmt.Errorf("model name is required")
	}
	return nil
}
