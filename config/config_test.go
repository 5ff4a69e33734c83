package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	assert.NoError(t, err)
	assert.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestLoadConfigFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := LoadConfig("")
	assert.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
	assert.Equal(t, "env-key", cfg.AnthropicAPIKey)
	assert.Equal(t, "env-key", cfg.APIKey())
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.ModelName)
	assert.Equal(t, 4096, cfg.MaxTokens)
}

func TestLoadConfigMissingKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := LoadConfig("")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY not set")
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ANTHROPIC_API_KEY", "env-key")

	yaml := `provider: anthropic
model_name: claude-3-haiku-20240307
max_tokens: 1024
output_dir: generated
deploy:
  host: example.com
  user: deploy
  domain: apps.example.com
`
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := LoadConfig(dir)
	assert.NoError(t, err)
	assert.Equal(t, "claude-3-haiku-20240307", cfg.ModelName)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Equal(t, "example.com", cfg.Deploy.Host)
	assert.Equal(t, "apps.example.com", cfg.Deploy.Domain)
}

func TestLoadConfigOpenAIProvider(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("ANTHROPIC_API_KEY", "")

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("provider: openai\n"), 0644))

	cfg, err := LoadConfig(dir)
	assert.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "oa-key", cfg.APIKey())
}

func TestLoadConfigUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("provider: bard\n"), 0644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
