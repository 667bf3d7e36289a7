package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/semcache/internal/cache/redis"
	"github.com/davidbz/semcache/internal/dashboard"
	"github.com/davidbz/semcache/internal/domain"
	embeddinggoogle "github.com/davidbz/semcache/internal/embedding/google"
	"github.com/davidbz/semcache/internal/embedding/hashing"
	embeddingopenai "github.com/davidbz/semcache/internal/embedding/openai"
	"github.com/davidbz/semcache/internal/history"
	"github.com/davidbz/semcache/internal/observability"
	"github.com/davidbz/semcache/internal/provider/echo"
	"github.com/davidbz/semcache/internal/provider/google"
	"github.com/davidbz/semcache/internal/provider/openai"
	"github.com/davidbz/semcache/internal/vectorstore/qdrant"
	"github.com/davidbz/semcache/internal/vectorstore/sqlite"
)

// Vector store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendQdrant = "qdrant"
	BackendSQLite = "sqlite"
)

// Config represents the semantic cache configuration.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Logger      observability.LoggerConfig
	Engine      EngineConfig
	VectorStore VectorStoreConfig
	Providers   ProvidersConfig
	History     history.Config
	Dashboard   dashboard.Config

	Redis  redis.Config
	Qdrant qdrant.Config
	SQLite sqlite.Config

	OpenAIEmbedding embeddingopenai.Config
	GoogleEmbedding embeddinggoogle.Config
	Hashing         hashing.Config

	OpenAI openai.Config
	Google google.Config
	Echo   echo.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"120"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// EngineConfig contains the cache decision settings.
type EngineConfig struct {
	Threshold       float64       `env:"ENGINE_THRESHOLD"        envDefault:"0.3"`
	Metric          string        `env:"ENGINE_METRIC"           envDefault:"euclidean"`
	ProviderTimeout time.Duration `env:"ENGINE_PROVIDER_TIMEOUT" envDefault:"0s"`
}

// DistanceMetric returns the validated metric.
func (c EngineConfig) DistanceMetric() (domain.Metric, error) {
	return domain.ParseMetric(c.Metric)
}

// VectorStoreConfig selects the vector store backend.
type VectorStoreConfig struct {
	Backend string `env:"VECTOR_STORE_BACKEND" envDefault:"memory"`
}

// ProvidersConfig selects the active embedding and answer providers by registry name.
type ProvidersConfig struct {
	Embedding string `env:"EMBEDDING_PROVIDER" envDefault:"hashing"`
	Answer    string `env:"ANSWER_PROVIDER"    envDefault:"echo"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server      *ServerConfig
	CORS        *CORSConfig
	Logger      *observability.LoggerConfig
	Engine      *EngineConfig
	VectorStore *VectorStoreConfig
	Providers   *ProvidersConfig
	History     *history.Config
	Dashboard   *dashboard.Config

	Redis  *redis.Config
	Qdrant *qdrant.Config
	SQLite *sqlite.Config

	OpenAIEmbedding *embeddingopenai.Config
	GoogleEmbedding *embeddinggoogle.Config
	Hashing         *hashing.Config

	OpenAI *openai.Config
	Google *google.Config
	Echo   *echo.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	cfg, err := Parse()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Parse loads environment files, parses configuration and validates it.
func Parse() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.Engine.Threshold < 0 {
		return fmt.Errorf("ENGINE_THRESHOLD must be non-negative, got %f", c.Engine.Threshold)
	}
	if _, err := c.Engine.DistanceMetric(); err != nil {
		return fmt.Errorf("invalid ENGINE_METRIC: %w", err)
	}
	if c.Engine.ProviderTimeout < 0 {
		return fmt.Errorf("ENGINE_PROVIDER_TIMEOUT must be non-negative, got %s", c.Engine.ProviderTimeout)
	}

	switch c.VectorStore.Backend {
	case BackendMemory, BackendRedis, BackendQdrant, BackendSQLite:
	default:
		return fmt.Errorf("unsupported VECTOR_STORE_BACKEND %q", c.VectorStore.Backend)
	}

	if c.History.Capacity <= 0 {
		return fmt.Errorf("HISTORY_CAPACITY must be positive, got %d", c.History.Capacity)
	}

	return nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:             dig.Out{},
		Server:          &cfg.Server,
		CORS:            &cfg.CORS,
		Logger:          &cfg.Logger,
		Engine:          &cfg.Engine,
		VectorStore:     &cfg.VectorStore,
		Providers:       &cfg.Providers,
		History:         &cfg.History,
		Dashboard:       &cfg.Dashboard,
		Redis:           &cfg.Redis,
		Qdrant:          &cfg.Qdrant,
		SQLite:          &cfg.SQLite,
		OpenAIEmbedding: &cfg.OpenAIEmbedding,
		GoogleEmbedding: &cfg.GoogleEmbedding,
		Hashing:         &cfg.Hashing,
		OpenAI:          &cfg.OpenAI,
		Google:          &cfg.Google,
		Echo:            &cfg.Echo,
	}
}
