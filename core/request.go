package core

import (
	"os"

	"github.com/SchmitzHorst/ai-agent-service/requirements"
)

// Request indicates the user's request for a new application.
type Request struct {
	Requirements *requirements.AppRequirements `mapstructure:"requirements"`

	GitRepo    bool `mapstructure:"git_repo"`
	GitIgnore  bool `mapstructure:"git_ignore"`
	Readme     bool `mapstructure:"readme"`
	Dockerfile bool `mapstructure:"dockerfile"`
	Archive    bool `mapstructure:"archive"`
	Deploy     bool `mapstructure:"deploy"`

	Provider  string `mapstructure:"provider"`
	APIKey    string `mapstructure:"api_key"`
	ModelName string `mapstructure:"model_name"`

	TemplateDir string `mapstructure:"template_dir"`
	OutputDir   string `mapstructure:"output_dir"`
	RemoteURL   string `mapstructure:"remote_url"`
	GitToken    string `mapstructure:"git_token"`
}

// DefaultRequest returns a Request with default values.
func DefaultRequest() *Request {
	return &Request{
		Requirements: &requirements.AppRequirements{
			AppName:     "my-app",
			Description: "Simple task tracking app",
		},
		Provider:    "anthropic",
		APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
		ModelName:   "claude-sonnet-4-20250514",
		TemplateDir: "templates/fullstack",
		OutputDir:   "apps",
		GitRepo:     false,
		GitIgnore:   false,
		Readme:      false,
		Dockerfile:  false,
		Archive:     false,
		Deploy:      false,
	}
}

func NewRequest(reqs *requirements.AppRequirements, apiKey, modelName string, gitRepo, gitIgnore, readme, dockerfile bool) *Request {
	return &Request{
		Requirements: reqs,
		APIKey:       apiKey,
		ModelName:    modelName,
		GitRepo:      gitRepo,
		GitIgnore:    gitIgnore,
		Readme:       readme,
		Dockerfile:   dockerfile,
	}
}
