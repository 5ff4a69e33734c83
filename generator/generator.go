// Package generator produces application source files from entity
// specifications by delegating to a completion client.
package generator

import (
	"fmt"
	"strings"

	"github.com/SchmitzHorst/ai-agent-service/cleaner"
	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/SchmitzHorst/ai-agent-service/requirements"
)

const componentSeparator = "=== HTML ==="

type Service struct {
	client llm.LlmClient
	logger logger.Logger
}

func NewService(client llm.LlmClient, l logger.Logger) *Service {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Service{client: client, logger: l}
}

// EntitySource generates the JPA entity class for an entity definition.
func (s *Service) EntitySource(entity requirements.EntitySpec) (string, error) {
	return s.generateJava(entityPrompt(entity), entity.Name)
}

// RepositorySource generates the Spring Data repository interface.
func (s *Service) RepositorySource(entity requirements.EntitySpec) (string, error) {
	return s.generateJava(repositoryPrompt(entity), entity.Name+"Repository")
}

// ControllerSource generates the REST controller exposing CRUD endpoints.
func (s *Service) ControllerSource(entity requirements.EntitySpec) (string, error) {
	return s.generateJava(controllerPrompt(entity), entity.Name+"Controller")
}

func (s *Service) generateJava(prompt, name string) (string, error) {
	raw, err := s.client.GetCompletion(prompt, "text")
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", name, err)
	}
	code := cleaner.Clean(raw)
	if !cleaner.ValidJavaSource(code) {
		s.logger.Warn(fmt.Sprintf("Generated code for %s might not be valid Java", name))
	}
	return code, nil
}

// ComponentSources generates the frontend component for an entity: the
// TypeScript class and its HTML template, produced in a single completion
// and split on a separator the prompt requests.
func (s *Service) ComponentSources(entity requirements.EntitySpec) (ts string, html string, err error) {
	raw, err := s.client.GetCompletion(componentPrompt(entity), "text")
	if err != nil {
		return "", "", fmt.Errorf("failed to generate component for %s: %w", entity.Name, err)
	}

	parts := strings.SplitN(raw, componentSeparator, 2)
	if len(parts) < 2 {
		s.logger.Warn(fmt.Sprintf("Could not find component separator for %s, requesting template separately", entity.Name))
		ts = cleaner.ExtractCode(raw)
		html, err = s.templateSource(entity)
		if err != nil {
			return "", "", err
		}
		return ts, html, nil
	}

	ts = cleaner.ExtractCode(strings.ReplaceAll(parts[0], "=== TYPESCRIPT ===", ""))
	html = cleaner.ExtractCode(parts[1])
	return ts, html, nil
}

func (s *Service) templateSource(entity requirements.EntitySpec) (string, error) {
	raw, err := s.client.GetCompletion(templatePrompt(entity), "text")
	if err != nil {
		return "", fmt.Errorf("failed to generate template for %s: %w", entity.Name, err)
	}
	return cleaner.Clean(raw), nil
}

// ServiceSource generates the frontend HTTP service for an entity.
func (s *Service) ServiceSource(entity requirements.EntitySpec) (string, error) {
	raw, err := s.client.GetCompletion(servicePrompt(entity), "text")
	if err != nil {
		return "", fmt.Errorf("failed to generate service for %s: %w", entity.Name, err)
	}
	return cleaner.Clean(raw), nil
}

// ReadmeContent generates a README for the application.
func (s *Service) ReadmeContent(reqs *requirements.AppRequirements) (string, error) {
	raw, err := s.client.GetCompletion(readmePrompt(reqs), "text")
	if err != nil {
		return "", fmt.Errorf("failed to generate README: %w", err)
	}
	return cleaner.Clean(raw), nil
}

// GitignoreContent generates a .gitignore for the application.
func (s *Service) GitignoreContent(reqs *requirements.AppRequirements) (string, error) {
	raw, err := s.client.GetCompletion(gitignorePrompt(reqs), "text")
	if err != nil {
		return "", fmt.Errorf("failed to generate .gitignore: %w", err)
	}
	return cleaner.Clean(raw), nil
}

// DockerfileContent generates a Dockerfile for the application backend.
func (s *Service) DockerfileContent(reqs *requirements.AppRequirements) (string, error) {
	raw, err := s.client.GetCompletion(dockerfilePrompt(reqs), "text")
	if err != nil {
		return "", fmt.Errorf("failed to generate Dockerfile: %w", err)
	}
	return cleaner.Clean(raw), nil
}
