package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SchmitzHorst/ai-agent-service/deploy"
	"github.com/SchmitzHorst/ai-agent-service/fs"
	"github.com/SchmitzHorst/ai-agent-service/generator"
	"github.com/SchmitzHorst/ai-agent-service/gitops"
	"github.com/SchmitzHorst/ai-agent-service/utils"
	"github.com/SchmitzHorst/ai-agent-service/validate"
)

const (
	modelDir      = "backend/src/main/java/com/example/app/model"
	repositoryDir = "backend/src/main/java/com/example/app/repository"
	controllerDir = "backend/src/main/java/com/example/app/controller"
	componentsDir = "frontend/src/app/components"
	servicesDir   = "frontend/src/app/services"
)

// Fragments identifying placeholder sources shipped with the template.
// Matched against base names, so they are only applied inside the backend
// source dirs and the frontend components/services dirs. A bare fragment
// like "example" must never be walked over the whole tree or it would
// take the com/example package path with it.
var templatePlaceholders = []string{
	"item",
	"item-list",
	"example",
	"sample",
	"demo",
}

// Directories the placeholder sweep is confined to.
var placeholderDirs = []string{
	modelDir,
	repositoryDir,
	controllerDir,
	componentsDir,
	servicesDir,
}

type StepManager interface {
	GetSteps() []StepType
	GetStep(stepType StepType) Step
	Generator() *generator.Service
	FileSystem() *fs.FileSystem
}

type DefaultStepManager struct {
	gen      *generator.Service
	fsys     *fs.FileSystem
	deployer *deploy.Deployer
	stepMap  map[StepType]Step
}

func NewDefaultStepManager(gen *generator.Service, fsys *fs.FileSystem, deployer *deploy.Deployer) *DefaultStepManager {
	return &DefaultStepManager{
		gen:      gen,
		fsys:     fsys,
		deployer: deployer,
		stepMap: map[StepType]Step{
			SeedTemplate:             &SeedTemplateStep{},
			RemovePlaceholders:       &RemovePlaceholdersStep{},
			GenerateEntities:         &GenerateEntitiesStep{},
			GenerateRepositories:     &GenerateRepositoriesStep{},
			GenerateControllers:      &GenerateControllersStep{},
			GenerateComponents:       &GenerateComponentsStep{},
			ValidateProject:          &ValidateProjectStep{},
			CreateOptionalComponents: &CreateOptionalComponentsStep{},
			FinalizeProject:          &FinalizeProjectStep{deployer: deployer},
		},
	}
}

func (m *DefaultStepManager) GetSteps() []StepType {
	return []StepType{
		SeedTemplate,
		RemovePlaceholders,
		GenerateEntities,
		GenerateRepositories,
		GenerateControllers,
		GenerateComponents,
		ValidateProject,
		CreateOptionalComponents,
		FinalizeProject,
	}
}

func (m *DefaultStepManager) GetStep(stepType StepType) Step {
	return m.stepMap[stepType]
}

func (m *DefaultStepManager) Generator() *generator.Service { return m.gen }

func (m *DefaultStepManager) FileSystem() *fs.FileSystem { return m.fsys }

type SeedTemplateStep struct{}

func (s *SeedTemplateStep) Execute(state *State) error {
	templateDir := state.Request.TemplateDir
	if templateDir == "" {
		state.Logger.Debug("No template directory configured, starting from an empty workspace")
		return nil
	}
	if _, err := os.Stat(templateDir); os.IsNotExist(err) {
		state.Logger.Warn(fmt.Sprintf("Template directory %s does not exist, starting from an empty workspace", templateDir))
		return nil
	}
	state.Logger.Debug(fmt.Sprintf("Seeding workspace from template %s", templateDir))
	if err := state.FileSystem.SeedFromOS(templateDir); err != nil {
		state.Logger.Error("Failed to seed workspace from template")
		return fmt.Errorf("failed to seed workspace from template: %w", err)
	}
	state.Logger.Debug("Workspace seeded successfully")
	return nil
}

type GenerateEntitiesStep struct{}

func (s *GenerateEntitiesStep) Execute(state *State) error {
	state.Logger.Debug("Generating entities.")
	for _, entity := range state.Request.Requirements.Entities {
		source, err := state.Gen.EntitySource(entity)
		if err != nil {
			state.Logger.Error(fmt.Sprintf("Failed to generate entity %s", entity.Name))
			return fmt.Errorf("failed to generate entity %s: %w", entity.Name, err)
		}
		path := filepath.Join(modelDir, entity.Name+".java")
		if err := state.FileSystem.WriteFile(path, source); err != nil {
			return fmt.Errorf("failed to write entity %s: %w", entity.Name, err)
		}
		state.GeneratedFiles[path] = source
		state.Logger.Debug(fmt.Sprintf("Entity %s generated", entity.Name))
	}
	return nil
}

type GenerateRepositoriesStep struct{}

func (s *GenerateRepositoriesStep) Execute(state *State) error {
	state.Logger.Debug("Generating repositories.")
	for _, entity := range state.Request.Requirements.Entities {
		source, err := state.Gen.RepositorySource(entity)
		if err != nil {
			state.Logger.Error(fmt.Sprintf("Failed to generate repository for %s", entity.Name))
			return fmt.Errorf("failed to generate repository for %s: %w", entity.Name, err)
		}
		path := filepath.Join(repositoryDir, entity.Name+"Repository.java")
		if err := state.FileSystem.WriteFile(path, source); err != nil {
			return fmt.Errorf("failed to write repository for %s: %w", entity.Name, err)
		}
		state.GeneratedFiles[path] = source
		state.Logger.Debug(fmt.Sprintf("Repository for %s generated", entity.Name))
	}
	return nil
}

type GenerateControllersStep struct{}

func (s *GenerateControllersStep) Execute(state *State) error {
	state.Logger.Debug("Generating controllers.")
	for _, entity := range state.Request.Requirements.Entities {
		source, err := state.Gen.ControllerSource(entity)
		if err != nil {
			state.Logger.Error(fmt.Sprintf("Failed to generate controller for %s", entity.Name))
			return fmt.Errorf("failed to generate controller for %s: %w", entity.Name, err)
		}
		path := filepath.Join(controllerDir, entity.Name+"Controller.java")
		if err := state.FileSystem.WriteFile(path, source); err != nil {
			return fmt.Errorf("failed to write controller for %s: %w", entity.Name, err)
		}
		state.GeneratedFiles[path] = source
		state.Logger.Debug(fmt.Sprintf("Controller for %s generated", entity.Name))
	}
	return nil
}

type GenerateComponentsStep struct{}

func (s *GenerateComponentsStep) Execute(state *State) error {
	state.Logger.Debug("Generating frontend components.")
	reqs := state.Request.Requirements
	for _, entity := range reqs.Entities {
		kebab := utils.ToKebabCase(entity.Name)

		ts, html, err := state.Gen.ComponentSources(entity)
		if err != nil {
			state.Logger.Error(fmt.Sprintf("Failed to generate component for %s", entity.Name))
			return fmt.Errorf("failed to generate component for %s: %w", entity.Name, err)
		}
		componentDir := filepath.Join(componentsDir, kebab+"-list")
		tsPath := filepath.Join(componentDir, kebab+"-list.component.ts")
		htmlPath := filepath.Join(componentDir, kebab+"-list.component.html")
		if err := state.FileSystem.WriteFile(tsPath, ts); err != nil {
			return fmt.Errorf("failed to write component for %s: %w", entity.Name, err)
		}
		if err := state.FileSystem.WriteFile(htmlPath, html); err != nil {
			return fmt.Errorf("failed to write component template for %s: %w", entity.Name, err)
		}
		state.GeneratedFiles[tsPath] = ts
		state.GeneratedFiles[htmlPath] = html

		service, err := state.Gen.ServiceSource(entity)
		if err != nil {
			state.Logger.Error(fmt.Sprintf("Failed to generate service for %s", entity.Name))
			return fmt.Errorf("failed to generate service for %s: %w", entity.Name, err)
		}
		servicePath := filepath.Join(servicesDir, kebab+".service.ts")
		if err := state.FileSystem.WriteFile(servicePath, service); err != nil {
			return fmt.Errorf("failed to write service for %s: %w", entity.Name, err)
		}
		state.GeneratedFiles[servicePath] = service
		state.Logger.Debug(fmt.Sprintf("Component and service for %s generated", entity.Name))
	}

	routes := generator.RoutesSource(reqs.Entities)
	routesPath := "frontend/src/app/app.routes.ts"
	if err := state.FileSystem.WriteFile(routesPath, routes); err != nil {
		return fmt.Errorf("failed to write routes: %w", err)
	}
	state.GeneratedFiles[routesPath] = routes

	homeTs, homeHTML := generator.HomeComponentSources(reqs.AppName, reqs.Entities)
	homeDir := filepath.Join(componentsDir, "home")
	homeTsPath := filepath.Join(homeDir, "home.component.ts")
	homeHTMLPath := filepath.Join(homeDir, "home.component.html")
	if err := state.FileSystem.WriteFile(homeTsPath, homeTs); err != nil {
		return fmt.Errorf("failed to write home component: %w", err)
	}
	if err := state.FileSystem.WriteFile(homeHTMLPath, homeHTML); err != nil {
		return fmt.Errorf("failed to write home component template: %w", err)
	}
	state.GeneratedFiles[homeTsPath] = homeTs
	state.GeneratedFiles[homeHTMLPath] = homeHTML

	state.Logger.Debug("Frontend components generated successfully")
	return nil
}

type RemovePlaceholdersStep struct{}

func (s *RemovePlaceholdersStep) Execute(state *State) error {
	state.Logger.Debug("Removing template placeholder sources.")
	for _, dir := range placeholderDirs {
		removed, err := state.FileSystem.RemoveMatching(dir, templatePlaceholders)
		if err != nil {
			state.Logger.Error("Failed to remove template placeholders")
			return fmt.Errorf("failed to remove template placeholders: %w", err)
		}
		for _, path := range removed {
			state.Logger.Debug(fmt.Sprintf("Removed placeholder %s", path))
		}
	}
	return nil
}

type ValidateProjectStep struct{}

func (s *ValidateProjectStep) Execute(state *State) error {
	state.Logger.Debug("Validating generated application.")
	result := validate.App(state.FileSystem)
	state.Validation = result
	for _, warning := range result.Warnings {
		state.Logger.Warn(fmt.Sprintf("Validation warning: %s", warning))
	}
	if result.HasErrors() {
		state.Logger.Error("Validation failed")
		return fmt.Errorf("validation failed: %s", result.String())
	}
	state.Logger.Debug("Validation passed")
	return nil
}

type CreateOptionalComponentsStep struct{}

func (s *CreateOptionalComponentsStep) Execute(state *State) error {
	state.Logger.Debug("Creating optional components.")
	reqs := state.Request.Requirements

	if state.Request.GitIgnore {
		state.Logger.Debug("Creating .gitignore file.")
		gitignore, err := state.Gen.GitignoreContent(reqs)
		if err != nil {
			state.Logger.Error("Failed to create .gitignore file")
			return fmt.Errorf("failed to create .gitignore file: %w", err)
		}
		if err := state.FileSystem.WriteFile(".gitignore", gitignore); err != nil {
			return fmt.Errorf("failed to create .gitignore file: %w", err)
		}
		state.Logger.Debug(".gitignore file created successfully")
	}

	if state.Request.Readme {
		state.Logger.Debug("Generating README.md.")
		readme, err := state.Gen.ReadmeContent(reqs)
		if err != nil {
			state.Logger.Error("Failed to generate README")
			return fmt.Errorf("failed to generate README: %w", err)
		}
		if err := state.FileSystem.WriteFile("README.md", readme); err != nil {
			return fmt.Errorf("failed to create README file: %w", err)
		}
		state.Logger.Debug("README.md created successfully")
	}

	if state.Request.Dockerfile {
		state.Logger.Debug("Generating Dockerfile.")
		dockerfile, err := state.Gen.DockerfileContent(reqs)
		if err != nil {
			state.Logger.Error("Failed to generate Dockerfile")
			return fmt.Errorf("failed to generate Dockerfile: %w", err)
		}
		if err := state.FileSystem.WriteFile("Dockerfile", dockerfile); err != nil {
			return fmt.Errorf("failed to create Dockerfile: %w", err)
		}
		state.Logger.Debug("Dockerfile created successfully")
	}

	state.Logger.Debug("Optional components created successfully")
	return nil
}

type FinalizeProjectStep struct {
	deployer *deploy.Deployer
}

func (s *FinalizeProjectStep) Execute(state *State) error {
	state.Logger.Debug("Finalizing application.")
	appName := utils.FormatAppName(state.Request.Requirements.AppName)
	outputPath := filepath.Join(state.Request.OutputDir, appName)

	if err := state.FileSystem.ExportToOS(outputPath); err != nil {
		state.Logger.Error("Failed to export application to output directory")
		return fmt.Errorf("failed to export application to %s: %w", outputPath, err)
	}
	state.OutputPath = outputPath

	if state.Request.Archive {
		data, err := state.FileSystem.WriteToZip()
		if err != nil {
			state.Logger.Error("Failed to archive application")
			return fmt.Errorf("failed to archive application: %w", err)
		}
		zipPath := filepath.Join(state.Request.OutputDir, appName+".zip")
		if err := os.WriteFile(zipPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write archive %s: %w", zipPath, err)
		}
		state.Logger.Debug(fmt.Sprintf("Archive written to %s", zipPath))
	}

	if state.Request.GitRepo {
		state.Logger.Debug("Initializing Git repository.")
		if err := gitops.InitRepo(outputPath, appName); err != nil {
			state.Logger.Error("Failed to initialize Git repository")
			return fmt.Errorf("failed to initialize git repository: %w", err)
		}
		if state.Request.RemoteURL != "" && state.Request.GitToken != "" {
			if err := gitops.Push(outputPath, state.Request.RemoteURL, state.Request.GitToken); err != nil {
				state.Logger.Error("Failed to push to remote repository")
				return fmt.Errorf("failed to push to remote repository: %w", err)
			}
		}
		state.Logger.Debug("Git repository initialized successfully")
	}

	if state.Request.Deploy {
		if s.deployer == nil {
			return fmt.Errorf("deployment requested but no deployment target configured")
		}
		url, err := s.deployer.Deploy(appName, outputPath)
		if err != nil {
			state.Logger.Error("Deployment failed")
			return fmt.Errorf("deployment failed: %w", err)
		}
		state.AppURL = url
		state.Logger.Info(fmt.Sprintf("Application deployed at %s", url))
	}

	state.Logger.Debug("Application finalized successfully")
	return nil
}
