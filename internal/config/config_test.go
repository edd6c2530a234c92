package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so no stray config/pathwise.yaml or
// .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.False(t, cfg.Production())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "pathwise.events", cfg.Redis.Channel)
	assert.Equal(t, 1.0, cfg.Otel.SampleRatio)
	assert.Equal(t, 2, cfg.Coach.Workers)
	assert.Equal(t, 3, cfg.Engine.MaxRetries)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := []byte(`
env: production
http:
  address: ":9090"
redis:
  addr: "localhost:6379"
coach:
  workers: 4
llm:
  provider: openai
  openai:
    model: gpt-4.1-mini
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "pathwise.yaml"), yaml, 0o644))

	t.Setenv("PATHWISE_HTTP_ADDRESS", ":7070")
	t.Setenv("PATHWISE_LLM_OPENAI_API_KEY", "sk-from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Production())
	assert.Equal(t, ":7070", cfg.HTTP.Address, "env overrides file")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Coach.Workers)

	lc, ok := cfg.LLMConfig()
	require.True(t, ok)
	assert.Equal(t, "openai", lc.Provider)
	assert.Equal(t, "sk-from-env", lc.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", lc.OpenAI.Model)
	assert.NoError(t, lc.Validate())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PATHWISE_COACH_WORKERS=7\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("PATHWISE_COACH_WORKERS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Coach.Workers)
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	chdir(t)
	_, err := Load("missing.yaml")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }},
		{"sample ratio", func(c *Config) { c.Otel.SampleRatio = 1.5 }},
		{"negative workers", func(c *Config) { c.Coach.Workers = -1 }},
		{"negative retries", func(c *Config) { c.Engine.MaxRetries = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Database: Database{Driver: "sqlite"}}
			tt.mut(&cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, ErrInvalidConfig), "err = %v", err)
		})
	}
}

func TestLLMConfig_Discovery(t *testing.T) {
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY"} {
		t.Setenv(k, "")
	}
	cfg := &Config{}
	_, ok := cfg.LLMConfig()
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g")
	lc, ok := cfg.LLMConfig()
	require.True(t, ok)
	assert.Equal(t, "gemini", lc.Provider)
}
