// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (ADBKB_* runtime override, plus DATABASE_URL)
//  2. Config file (~/.adbkb/config.yaml or ./config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: generation model tiers, temperature, max tokens, embedder
//   - Storage: PostgreSQL connection (see storage.go)
//   - Retrieval: top-K, hybrid search toggle, vector dimensions
//   - Ingestion: chunk size and overlap
//   - Server: HTTP bind address, CORS, rate limiting
//
// Sensitive data (passwords) is never logged. Validation lives in
// validation.go with sentinel errors for errors.Is() checks.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates a generation model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidTemperature indicates the temperature value is out of range.
	ErrInvalidTemperature = errors.New("invalid temperature")

	// ErrInvalidMaxTokens indicates the max tokens value is out of range.
	ErrInvalidMaxTokens = errors.New("invalid max tokens")

	// ErrInvalidEmbedderModel indicates the embedder model is empty.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidDimensions indicates an unsupported embedding dimensionality.
	ErrInvalidDimensions = errors.New("invalid embedding dimensions")

	// ErrInvalidTopK indicates the retrieval top-K is not positive.
	ErrInvalidTopK = errors.New("invalid top-k")

	// ErrInvalidChunking indicates chunk size/overlap constraints are violated.
	ErrInvalidChunking = errors.New("invalid chunking settings")

	// ErrInvalidPort indicates the server port is out of range.
	ErrInvalidPort = errors.New("invalid port")

	// ErrInvalidRateLimit indicates a negative rate limit setting.
	ErrInvalidRateLimit = errors.New("invalid rate limit")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is empty.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is empty.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

// Model defaults. The router runs on a cheap, fast tier; specialists and
// the synthesizer get the full model with a larger token budget. This
// tiering is purely a configuration concern.
const (
	// DefaultModel is the generation model for specialists and synthesis.
	DefaultModel = "gemini-2.5-flash"

	// DefaultRouterModel is the cheap classification tier.
	DefaultRouterModel = "gemini-2.5-flash-lite"

	// DefaultEmbedderModel produces 768-dimensional vectors, matching the
	// vector(768) column in db/migrations.
	DefaultEmbedderModel = "text-embedding-004"
)

// Config stores application configuration.
// Sensitive fields (PostgresPassword) must never be logged.
type Config struct {
	// Generation model configuration
	ModelName         string  `mapstructure:"model_name"`
	RouterModelName   string  `mapstructure:"router_model_name"`
	Temperature       float32 `mapstructure:"temperature"`
	RouterTemperature float32 `mapstructure:"router_temperature"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	RouterMaxTokens   int     `mapstructure:"router_max_tokens"`

	// Embedding configuration
	EmbedderModel string `mapstructure:"embedder_model"`
	Dimensions    int    `mapstructure:"dimensions"`

	// Retrieval configuration
	TopK         int  `mapstructure:"top_k"`
	HybridSearch bool `mapstructure:"hybrid_search"`

	// Ingestion chunking configuration
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`

	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"` // SENSITIVE
	PostgresDBName   string `mapstructure:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode"`

	// HTTP server configuration
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	RateRPS     float64  `mapstructure:"rate_rps"`
	RateBurst   int      `mapstructure:"rate_burst"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".adbkb"))
	}
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("ADBKB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL has highest priority for PostgreSQL settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// LogLevelSlog maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c *Config) LogLevelSlog() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// Generation defaults
	v.SetDefault("model_name", DefaultModel)
	v.SetDefault("router_model_name", DefaultRouterModel)
	v.SetDefault("temperature", 0.1)
	v.SetDefault("router_temperature", 0.0)
	v.SetDefault("max_tokens", 4000)
	v.SetDefault("router_max_tokens", 500)

	// Embedding defaults
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("dimensions", 768)

	// Retrieval defaults
	v.SetDefault("top_k", 5)
	v.SetDefault("hybrid_search", true)

	// Chunking defaults
	v.SetDefault("chunk_size", 1000)
	v.SetDefault("chunk_overlap", 200)

	// Storage defaults
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "adbkb")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_db_name", "adbkb")
	v.SetDefault("postgres_ssl_mode", "disable")

	// Server defaults
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("rate_rps", 10.0)
	v.SetDefault("rate_burst", 60)

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}
