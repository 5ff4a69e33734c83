package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
type Config struct {
	Provider        string `mapstructure:"provider"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	ModelName       string `mapstructure:"model_name"`
	MaxTokens       int    `mapstructure:"max_tokens"`

	TemplateDir string `mapstructure:"template_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	TellmURL    string `mapstructure:"tellm_url"`

	Deploy DeployConfig `mapstructure:"deploy"`
}

// DeployConfig describes the target host applications are shipped to.
type DeployConfig struct {
	Host      string `mapstructure:"host"`
	User      string `mapstructure:"user"`
	KeyPath   string `mapstructure:"key_path"`
	TargetDir string `mapstructure:"target_dir"`
	Domain    string `mapstructure:"domain"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider:        "anthropic",
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		ModelName:       "claude-sonnet-4-20250514",
		MaxTokens:       4096,
		TemplateDir:     "templates/fullstack",
		OutputDir:       "apps",
		Deploy: DeployConfig{
			TargetDir: "/opt/apps",
		},
	}
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	// Optional .env next to the working directory.
	_ = godotenv.Load()

	config := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".agent"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; ignore error if desired
	}

	// Environment variables
	v.SetEnvPrefix("AGENT")
	v.AutomaticEnv()
	v.BindEnv("anthropic_api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("openai_api_key", "OPENAI_API_KEY")

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Provider {
	case "anthropic", "":
		if config.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
	case "openai":
		if config.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown provider: %s", config.Provider)
	}
	return nil
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.AnthropicAPIKey
}
