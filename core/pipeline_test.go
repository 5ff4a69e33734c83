package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SchmitzHorst/ai-agent-service/fs"
	"github.com/SchmitzHorst/ai-agent-service/generator"
	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/SchmitzHorst/ai-agent-service/requirements"
)

// MockLLM is a mock implementation of the LLM client
type MockLLM struct {
	mock.Mock
}

func (m *MockLLM) GetCompletion(prompt, responseType string) (string, error) {
	time.Sleep(100 * time.Millisecond)
	args := m.Called(prompt, responseType)
	return args.String(0), args.Error(1)
}

type Publisher struct {
	stepChan chan StepType
	errChan  chan error
}

func NewPublisher() *Publisher {
	return &Publisher{
		stepChan: make(chan StepType),
		errChan:  make(chan error),
	}
}

func (p *Publisher) PublishStep(step StepType) {
	p.stepChan <- step
}

func (p *Publisher) Error(step StepType, err error) {
	p.errChan <- err
}

const taskEntity = `package com.example.app.model;

import jakarta.persistence.Entity;

@Entity
public class Task {
    private String title;
    private Boolean completed;

    public String getTitle() { return title; }
    public Boolean getCompleted() { return completed; }
}`

const taskRepository = `package com.example.app.repository;

import org.springframework.data.jpa.repository.JpaRepository;

public interface TaskRepository extends JpaRepository<Task, Long> {
}`

const taskController = `package com.example.app.controller;

import org.springframework.web.bind.annotation.RestController;

@RestController
public class TaskController {
    public String show(Task t) { return t.getTitle(); }
}`

const taskComponent = "=== TYPESCRIPT ===\n```typescript\n" + `import { Component } from '@angular/core';

@Component({
  selector: 'app-task-list',
  templateUrl: './task-list.component.html'
})
export class TaskListComponent {
  tasks = [];
}` + "\n```\n=== HTML ===\n```html\n<ul></ul>\n```"

const taskService = `import { Injectable } from '@angular/core';

@Injectable({ providedIn: 'root' })
export class TaskService {
}`

func seedTemplate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"backend/pom.xml": "<project/>",
		"backend/src/main/resources/application.properties":                   "server.port=8080",
		"backend/src/main/java/com/example/app/model/Item.java":               "package com.example.app.model;\npublic class Item {}",
		"frontend/package.json":                                               "{}",
		"frontend/src/app/components/item-list/item-list.component.ts":        "export class ItemListComponent {}",
		"frontend/src/app/components/demo/demo.component.ts":                  "export class DemoComponent {}",
		"frontend/src/app/services/sample.service.ts":                         "export class SampleService {}",
		"docker-compose.prod.yml":                                             "networks:\n  web:\n    external: true\n",
		".env.example":                                                        "APP_NAME=",
	}
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		assert.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		assert.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

func taskRequest(t *testing.T) *Request {
	t.Helper()
	return &Request{
		Requirements: &requirements.AppRequirements{
			AppName:     "task-tracker",
			Description: "A task tracking app",
			Entities: []requirements.EntitySpec{
				{
					Name: "Task",
					Fields: []requirements.FieldSpec{
						{Name: "title", Type: "String", Required: true},
						{Name: "completed", Type: "Boolean"},
					},
				},
			},
		},
		GitIgnore:   true,
		Readme:      true,
		Dockerfile:  true,
		Archive:     true,
		APIKey:      "test-key",
		ModelName:   "test-model",
		TemplateDir: seedTemplate(t),
		OutputDir:   t.TempDir(),
	}
}

func TestPipeline_Execute(t *testing.T) {
	mockLLM := new(MockLLM)

	// Generation order: entity, repository, controller, component, service,
	// then the optional .gitignore, README and Dockerfile.
	for _, resp := range []string{
		taskEntity,
		taskRepository,
		taskController,
		taskComponent,
		taskService,
		"node_modules/\ntarget/",
		"# task-tracker",
		"FROM eclipse-temurin:21",
	} {
		mockLLM.On("GetCompletion", mock.AnythingOfType("string"), "text").Return(resp, nil).Once()
	}

	r := taskRequest(t)
	memFS := fs.NewMemoryFileSystem()
	realPublisher := NewPublisher()

	gen := generator.NewService(mockLLM, nil)
	pipeline, err := NewPipeline(r, NewDefaultStepManager(gen, memFS, nil), realPublisher, logger.NewNullLogger())
	assert.NoError(t, err)

	stepChan := make(chan StepType, 10)
	go func() {
		for step := range realPublisher.stepChan {
			stepChan <- step
		}
	}()

	go func() {
		err := pipeline.Execute(context.Background())
		assert.NoError(t, err)
		close(realPublisher.stepChan)
	}()

	expectedSteps := []StepType{
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
	for _, expectedStep := range expectedSteps {
		select {
		case step := <-stepChan:
			assert.Equal(t, expectedStep, step)
		case <-time.After(10 * time.Second):
			t.Fatalf("Timeout waiting for step: %v", expectedStep)
		}
	}

	mockLLM.AssertExpectations(t)

	// Placeholders from the template are gone, generated sources are present.
	assert.False(t, memFS.FileExists("backend/src/main/java/com/example/app/model/Item.java"))
	assert.False(t, memFS.IsDir("frontend/src/app/components/item-list"))
	assert.False(t, memFS.IsDir("frontend/src/app/components/demo"))
	assert.False(t, memFS.FileExists("frontend/src/app/services/sample.service.ts"))
	assert.True(t, memFS.FileExists(".env.example"))
	assert.True(t, memFS.FileExists("backend/src/main/java/com/example/app/model/Task.java"))
	assert.True(t, memFS.FileExists("backend/src/main/java/com/example/app/repository/TaskRepository.java"))
	assert.True(t, memFS.FileExists("backend/src/main/java/com/example/app/controller/TaskController.java"))
	assert.True(t, memFS.FileExists("frontend/src/app/components/task-list/task-list.component.ts"))
	assert.True(t, memFS.FileExists("frontend/src/app/components/task-list/task-list.component.html"))
	assert.True(t, memFS.FileExists("frontend/src/app/services/task.service.ts"))
	assert.True(t, memFS.FileExists("frontend/src/app/app.routes.ts"))
	assert.True(t, memFS.FileExists("frontend/src/app/components/home/home.component.ts"))
	assert.True(t, memFS.FileExists(".gitignore"))
	assert.True(t, memFS.FileExists("README.md"))
	assert.True(t, memFS.FileExists("Dockerfile"))

	// The workspace was exported and archived.
	outputPath := filepath.Join(r.OutputDir, "task-tracker")
	assert.Equal(t, outputPath, pipeline.OutputPath())
	_, err = os.Stat(filepath.Join(outputPath, "backend", "pom.xml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(r.OutputDir, "task-tracker.zip"))
	assert.NoError(t, err)
}

func TestPipeline_Cancel(t *testing.T) {
	mockLLM := new(MockLLM)
	mockLLM.On("GetCompletion", mock.AnythingOfType("string"), "text").Return(taskEntity, nil)

	r := taskRequest(t)
	memFS := fs.NewMemoryFileSystem()
	realPublisher := NewPublisher()

	gen := generator.NewService(mockLLM, nil)
	pipeline, err := NewPipeline(r, NewDefaultStepManager(gen, memFS, nil), realPublisher, logger.NewNullLogger())
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	stepChan := make(chan StepType, 10)
	go func() {
		for step := range realPublisher.stepChan {
			stepChan <- step
		}
	}()

	done := make(chan error, 1)
	go func() {
		done <- pipeline.Execute(ctx)
		close(realPublisher.stepChan)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for pipeline to stop")
	}
}

func TestPipeline_ValidationFailure(t *testing.T) {
	mockLLM := new(MockLLM)

	// The controller references a field the entity does not declare.
	badController := `package com.example.app.controller;

public class TaskController {
    public String show(Task t) { return t.getDescription(); }
}`
	for _, resp := range []string{
		taskEntity,
		taskRepository,
		badController,
		taskComponent,
		taskService,
	} {
		mockLLM.On("GetCompletion", mock.AnythingOfType("string"), "text").Return(resp, nil).Once()
	}

	r := taskRequest(t)
	r.GitIgnore = false
	r.Readme = false
	r.Dockerfile = false

	memFS := fs.NewMemoryFileSystem()
	gen := generator.NewService(mockLLM, nil)
	pipeline, err := NewPipeline(r, NewDefaultStepManager(gen, memFS, nil), &DefaultStepPublisher{}, logger.NewNullLogger())
	assert.NoError(t, err)

	err = pipeline.Execute(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "getDescription()")
}

func TestNewPipelineRejectsInvalidRequirements(t *testing.T) {
	r := &Request{Requirements: &requirements.AppRequirements{AppName: "no-entities"}}
	_, err := NewPipeline(r, NewDefaultStepManager(nil, fs.NewMemoryFileSystem(), nil), &DefaultStepPublisher{}, logger.NewNullLogger())
	assert.Error(t, err)
}
