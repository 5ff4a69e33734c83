package core

import (
	"context"
	"fmt"
	"time"

	"github.com/SchmitzHorst/ai-agent-service/fs"
	"github.com/SchmitzHorst/ai-agent-service/generator"
	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/SchmitzHorst/ai-agent-service/validate"
)

type Step interface {
	Execute(state *State) error
}

type StepType int

const (
	SeedTemplate StepType = iota
	RemovePlaceholders
	GenerateEntities
	GenerateRepositories
	GenerateControllers
	GenerateComponents
	ValidateProject
	CreateOptionalComponents
	FinalizeProject
	Done
)

func (s StepType) String() string {
	switch s {
	case SeedTemplate:
		return "SeedTemplate"
	case RemovePlaceholders:
		return "RemovePlaceholders"
	case GenerateEntities:
		return "GenerateEntities"
	case GenerateRepositories:
		return "GenerateRepositories"
	case GenerateControllers:
		return "GenerateControllers"
	case GenerateComponents:
		return "GenerateComponents"
	case ValidateProject:
		return "ValidateProject"
	case CreateOptionalComponents:
		return "CreateOptionalComponents"
	case FinalizeProject:
		return "FinalizeProject"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("StepType(%d)", int(s))
	}
}

type State struct {
	Request         *Request
	Gen             *generator.Service
	FileSystem      *fs.FileSystem
	GeneratedFiles  map[string]string
	Validation      *validate.Result
	OutputPath      string
	AppURL          string
	Logger          logger.Logger
}

type Pipeline struct {
	stepManager StepManager
	state       *State
	publisher   StepPublisher
}

func NewPipeline(r *Request, sm StepManager, pub StepPublisher, l logger.Logger) (*Pipeline, error) {
	if r.Requirements == nil {
		return nil, fmt.Errorf("request has no requirements")
	}
	if err := r.Requirements.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		state: &State{
			Request:        r,
			Gen:            sm.Generator(),
			FileSystem:     sm.FileSystem(),
			GeneratedFiles: make(map[string]string),
			Logger:         l,
		},
		publisher:   pub,
		stepManager: sm,
	}, nil
}

func (p *Pipeline) Execute(ctx context.Context) error {
	steps := p.stepManager.GetSteps()
	p.state.Logger.Info("Starting pipeline execution")
	for i, stepType := range steps {
		select {
		case <-ctx.Done():
			p.state.Logger.Info("Pipeline execution cancelled")
			return context.Canceled
		default:
			p.state.Logger.Info(fmt.Sprintf("Attempting to execute step %d: %v", i, stepType))
			step := p.stepManager.GetStep(stepType)
			if step == nil {
				p.state.Logger.Error(fmt.Sprintf("Step %v not found", stepType))
				p.publisher.Error(stepType, fmt.Errorf("step %v not found", stepType))
				return fmt.Errorf("step %v not found", stepType)
			}

			startTime := time.Now()
			if err := step.Execute(p.state); err != nil {
				p.state.Logger.Error(fmt.Sprintf("Error executing step %v", stepType))
				p.publisher.Error(stepType, err)
				return err
			}
			duration := time.Since(startTime)
			p.state.Logger.Info(fmt.Sprintf("Step %v completed in %v", stepType, duration))
			p.publisher.PublishStep(stepType)

			if i < len(steps)-1 {
				p.state.Logger.Info(fmt.Sprintf("Transitioning from step %v to step %v", stepType, steps[i+1]))
			}
		}
	}

	p.state.Logger.Info("Pipeline execution completed")
	return nil
}

// OutputPath reports where the finalized application was written.
func (p *Pipeline) OutputPath() string {
	return p.state.OutputPath
}

// AppURL reports the deployed application URL, if deployment ran.
func (p *Pipeline) AppURL() string {
	return p.state.AppURL
}

type StepPublisher interface {
	PublishStep(step StepType)
	Error(step StepType, err error)
}

type DefaultStepPublisher struct{}

func (p *DefaultStepPublisher) PublishStep(step StepType) {}

func (p *DefaultStepPublisher) Error(step StepType, err error) {}
