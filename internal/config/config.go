// Package config loads runtime settings from config/pathwise.yaml, the
// environment (PATHWISE_ prefix) and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "PATHWISE"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string   `mapstructure:"env"`      // development or production
	Database Database `mapstructure:"database"` // storage backend
	HTTP     HTTP     `mapstructure:"http"`     // API server
	Redis    Redis    `mapstructure:"redis"`    // event publishing
	Otel     Otel     `mapstructure:"otel"`     // tracing
	LLM      LLM      `mapstructure:"llm"`      // study-note generation
	Coach    Coach    `mapstructure:"coach"`    // background note workers
	Engine   Engine   `mapstructure:"engine"`   // submission behaviour
}

type Database struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`    // empty selects the default SQLite file
}

type HTTP struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // empty disables Redis publishing
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type Otel struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP/HTTP host:port; empty writes spans to stdout
	Insecure    bool    `mapstructure:"insecure"` // plain HTTP to the collector
	SampleRatio float64 `mapstructure:"sample_ratio"`
	ServiceName string  `mapstructure:"service_name"`
}

type LLM struct {
	Provider  string        `mapstructure:"provider"` // empty probes the standard *_API_KEY variables
	Timeout   time.Duration `mapstructure:"timeout"`
	Anthropic Credentials   `mapstructure:"anthropic"`
	OpenAI    Credentials   `mapstructure:"openai"`
	Gemini    Credentials   `mapstructure:"gemini"`
}

type Credentials struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type Coach struct {
	Workers   int `mapstructure:"workers"`
	QueueSize int `mapstructure:"queue_size"`
}

type Engine struct {
	MaxRetries int `mapstructure:"max_retries"` // re-runs of a submission after a version conflict
}

// Production reports whether the production profile is active.
func (c *Config) Production() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// Load reads configuration. path, when non-empty, names an explicit config
// file; otherwise ./config/pathwise.yaml is used if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pathwise")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; secrets
	// have no defaults so they are bound explicitly.
	for _, key := range []string{
		"redis.password",
		"llm.anthropic.api_key",
		"llm.openai.api_key",
		"llm.openai.base_url",
		"llm.gemini.api_key",
	} {
		_ = v.BindEnv(key)
	}
	_ = v.BindEnv("database.dsn", EnvPrefix+"_DATABASE_DSN", "DATABASE_URL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("http.address", ":8080")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "pathwise.events")
	v.SetDefault("otel.enabled", false)
	v.SetDefault("otel.endpoint", "")
	v.SetDefault("otel.insecure", false)
	v.SetDefault("otel.sample_ratio", 1.0)
	v.SetDefault("otel.service_name", "pathwise")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.anthropic.model", "claude-haiku")
	v.SetDefault("llm.openai.model", "gpt-4o-mini")
	v.SetDefault("llm.gemini.model", "gemini-flash")
	v.SetDefault("coach.workers", 2)
	v.SetDefault("coach.queue_size", 64)
	v.SetDefault("engine.max_retries", 3)
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: database.driver must be sqlite or postgres, got %q", ErrInvalidConfig, c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("%w: database.dsn is required for postgres", ErrInvalidConfig)
	}
	if c.Otel.SampleRatio < 0 || c.Otel.SampleRatio > 1 {
		return fmt.Errorf("%w: otel.sample_ratio must be within [0,1]", ErrInvalidConfig)
	}
	if c.Coach.Workers < 0 {
		return fmt.Errorf("%w: coach.workers must not be negative", ErrInvalidConfig)
	}
	if c.Engine.MaxRetries < 0 {
		return fmt.Errorf("%w: engine.max_retries must not be negative", ErrInvalidConfig)
	}
	return nil
}
