package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// History store backends
const (
	HistoryBackendMemory   = "memory"
	HistoryBackendPostgres = "postgres"
)

// Generator providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration for the application
type Config struct {
	PostgreSQL PostgreSQLConfig
	Server     ServerConfig
	History    HistoryConfig
	Ranking    RankingConfig
	Logging    LoggingConfig
	Generator  GeneratorConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig

	// Warnings collects malformed values that fell back to defaults.
	// They are logged once the logger exists.
	Warnings []string
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string // full connection string, preferred when set
	Host               string
	Port               int
	User               string
	Password           string
	Database           string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int
	Host            string
	GinMode         string
	AllowedOrigins  []string
	AllowedMethods  []string
	AllowedHeaders  []string
	ShutdownTimeout time.Duration
}

// HistoryConfig controls the recent-commands list
type HistoryConfig struct {
	Backend             string
	MaxItems            int
	Embeddings          bool // embed transcripts for similar-command lookup
	EmbeddingDimensions int
}

// RankingConfig holds the similar-command ranking weights
type RankingConfig struct {
	WeightSimilarity float64
	WeightRecency    float64
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// GeneratorConfig selects the generation back-ends
type GeneratorConfig struct {
	Provider      string // documents, emails, answers and embeddings
	ImageProvider string
	Timeout       time.Duration
}

// OpenAIConfig holds OpenAI-compatible API configuration
type OpenAIConfig struct {
	APIKey              string
	APIBase             string
	ChatModel           string
	ChatTemperature     float64
	ChatTopP            float64
	ChatMaxTokens       int
	ChatExtraBody       string // JSON object, e.g. {"chat_template_kwargs":{"thinking":true}}
	EmbeddingModel      string
	EmbeddingDimensions int
	EmbeddingExtraBody  string // JSON object, e.g. {"truncate":"NONE"}
	BatchSize           int
	ImageModel          string
	ImageAPIBase        string // empty means the official OpenAI endpoint
	Timeout             int    // seconds
	Enabled             bool
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey              string
	BaseURL             string
	TextModel           string
	ImageModel          string
	EmbeddingModel      string
	EmbeddingDimensions int
	Enabled             bool
}

// loader reads typed values from the environment and remembers bad input
type loader struct {
	warnings []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	l := &loader{}
	embeddingDims := l.getInt("HISTORY_EMBEDDING_DIMENSIONS", 768)

	cfg := &Config{
		PostgreSQL: PostgreSQLConfig{
			DSN:                getEnv("DATABASE_URL", getEnv("POSTGRESQL_URI", getEnv("PG_DSN", ""))),
			Host:               getEnv("PG_HOST", "localhost"),
			Port:               l.getInt("PG_PORT", 5432),
			User:               getEnv("PG_USER", "postgres"),
			Password:           getEnv("PG_PASSWORD", ""),
			Database:           getEnv("PG_DATABASE", "jarvis"),
			SSLMode:            getEnv("PG_SSLMODE", "disable"),
			MaxConnections:     l.getInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: l.getInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Server: ServerConfig{
			Port:            l.getInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:         getEnv("GIN_MODE", "release"),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", "*"),
			AllowedMethods:  getEnvAsList("CORS_ALLOWED_METHODS", "GET,POST,DELETE,OPTIONS"),
			AllowedHeaders:  getEnvAsList("CORS_ALLOWED_HEADERS", "Content-Type,Authorization"),
			ShutdownTimeout: l.getDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		History: HistoryConfig{
			Backend:             strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendMemory)),
			MaxItems:            l.getInt("HISTORY_MAX_ITEMS", 100),
			Embeddings:          l.getBool("HISTORY_EMBEDDINGS", false),
			EmbeddingDimensions: embeddingDims,
		},
		Ranking: RankingConfig{
			WeightSimilarity: l.getFloat("RANK_WEIGHT_SIMILARITY", 0.8),
			WeightRecency:    l.getFloat("RANK_WEIGHT_RECENCY", 0.2),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		},
		Generator: GeneratorConfig{
			Provider:      strings.ToLower(getEnv("GENERATOR_PROVIDER", ProviderGemini)),
			ImageProvider: strings.ToLower(getEnv("IMAGE_PROVIDER", ProviderGemini)),
			Timeout:       l.getDuration("GENERATOR_TIMEOUT", 60*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:              getEnv("OPENAI_API_KEY", ""),
			APIBase:             getEnv("OPENAI_API_BASE", "https://api.openai.com/v1"),
			ChatModel:           getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
			ChatTemperature:     l.getFloat("OPENAI_CHAT_TEMPERATURE", 0.7),
			ChatTopP:            l.getFloat("OPENAI_CHAT_TOP_P", 0),
			ChatMaxTokens:       l.getInt("OPENAI_CHAT_MAX_TOKENS", 4096),
			ChatExtraBody:       getEnv("OPENAI_CHAT_EXTRA_BODY", ""),
			EmbeddingModel:      getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingDimensions: embeddingDims,
			EmbeddingExtraBody:  getEnv("OPENAI_EMBEDDING_EXTRA_BODY", ""),
			BatchSize:           l.getInt("OPENAI_BATCH_SIZE", 100),
			ImageModel:          getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
			ImageAPIBase:        getEnv("OPENAI_IMAGE_API_BASE", ""),
			Timeout:             l.getInt("OPENAI_TIMEOUT", 60),
			Enabled:             getEnv("OPENAI_API_KEY", "") != "",
		},
		Gemini: GeminiConfig{
			APIKey:              getEnv("GEMINI_API_KEY", getEnv("GOOGLE_API_KEY", "")),
			BaseURL:             getEnv("GEMINI_BASE_URL", ""),
			TextModel:           getEnv("GEMINI_TEXT_MODEL", "gemini-2.0-flash"),
			ImageModel:          getEnv("GEMINI_IMAGE_MODEL", "gemini-2.0-flash-exp"),
			EmbeddingModel:      getEnv("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),
			EmbeddingDimensions: embeddingDims,
		},
	}
	cfg.Gemini.Enabled = cfg.Gemini.APIKey != ""
	cfg.Warnings = l.warnings

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
// Missing API keys are allowed; the matching commands report an error result.
func (c *Config) Validate() error {
	var errs []error

	switch c.History.Backend {
	case HistoryBackendMemory, HistoryBackendPostgres:
	default:
		errs = append(errs, fmt.Errorf("HISTORY_BACKEND must be %q or %q, got %q", HistoryBackendMemory, HistoryBackendPostgres, c.History.Backend))
	}
	if c.History.MaxItems <= 0 {
		errs = append(errs, fmt.Errorf("HISTORY_MAX_ITEMS must be positive, got %d", c.History.MaxItems))
	}
	if c.History.Embeddings && c.History.EmbeddingDimensions <= 0 {
		errs = append(errs, fmt.Errorf("HISTORY_EMBEDDING_DIMENSIONS must be positive when HISTORY_EMBEDDINGS is on"))
	}

	for name, provider := range map[string]string{
		"GENERATOR_PROVIDER": c.Generator.Provider,
		"IMAGE_PROVIDER":     c.Generator.ImageProvider,
	} {
		if provider != ProviderGemini && provider != ProviderOpenAI {
			errs = append(errs, fmt.Errorf("%s must be %q or %q, got %q", name, ProviderGemini, ProviderOpenAI, provider))
		}
	}
	if c.Generator.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("GENERATOR_TIMEOUT must be positive"))
	}

	if c.Ranking.WeightSimilarity < 0 || c.Ranking.WeightRecency < 0 {
		errs = append(errs, fmt.Errorf("ranking weights must not be negative"))
	} else if c.Ranking.WeightSimilarity+c.Ranking.WeightRecency == 0 {
		errs = append(errs, fmt.Errorf("at least one ranking weight must be positive"))
	}

	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port))
	}

	return errors.Join(errs...)
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (l *loader) warn(key, value, fallback string) {
	l.warnings = append(l.warnings, fmt.Sprintf("invalid value %q for %s, using default %s", value, key, fallback))
}

func (l *loader) getInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		l.warn(key, valueStr, strconv.Itoa(defaultValue))
		return defaultValue
	}
	return value
}

func (l *loader) getFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		l.warn(key, valueStr, strconv.FormatFloat(defaultValue, 'f', -1, 64))
		return defaultValue
	}
	return value
}

func (l *loader) getBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		l.warn(key, valueStr, strconv.FormatBool(defaultValue))
		return defaultValue
	}
	return value
}

// getDuration accepts Go durations ("90s") or a bare number of seconds
func (l *loader) getDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		l.warn(key, valueStr, defaultValue.String())
		return defaultValue
	}
	return value
}
