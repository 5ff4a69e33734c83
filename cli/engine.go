package cli

import (
	"context"
	"sync"
	"time"

	"github.com/SchmitzHorst/ai-agent-service/config"
	"github.com/SchmitzHorst/ai-agent-service/core"
	"github.com/SchmitzHorst/ai-agent-service/deploy"
	"github.com/SchmitzHorst/ai-agent-service/fs"
	"github.com/SchmitzHorst/ai-agent-service/generator"
	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
)

type ExecutionRequest struct {
	Request    *core.Request
	ResultChan chan error
	CreatedAt  time.Time
}

type Engine struct {
	pub          core.StepPublisher
	logger       logger.Logger
	requests     chan ExecutionRequest
	workers      int
	workerWG     sync.WaitGroup
	shutdownChan chan struct{}
	fs           *fs.FileSystem
	cfg          *config.Config
}

func NewAppEngine(pub core.StepPublisher, l logger.Logger, workers int, fs *fs.FileSystem, cfg *config.Config) (*Engine, error) {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Engine{
		pub:          pub,
		logger:       l,
		requests:     make(chan ExecutionRequest, 1000), // Buffered channel
		workers:      workers,
		shutdownChan: make(chan struct{}),
		fs:           fs,
		cfg:          cfg,
	}, nil
}

func (e *Engine) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.workerWG.Add(1)
		go e.worker(ctx)
	}
}

func (e *Engine) worker(ctx context.Context) {
	defer e.workerWG.Done()
	for {
		select {
		case req := <-e.requests:
			r := req.Request
			llmCfg := llm.LlmConfig{
				Provider:  r.Provider,
				APIKey:    r.APIKey,
				ModelName: r.ModelName,
				System:    llm.SystemPrompt(),
				BatchID:   llm.EnsureBatchID(r.Requirements.AppName),
				TellmURL:  e.cfg.TellmURL,
			}
			client, err := llm.NewClient(&llmCfg, e.logger)
			if err != nil {
				req.ResultChan <- err
				close(req.ResultChan)
				continue
			}

			var deployer *deploy.Deployer
			if r.Deploy {
				deployer = deploy.NewDeployer(deploy.Config{
					Host:      e.cfg.Deploy.Host,
					User:      e.cfg.Deploy.User,
					KeyPath:   e.cfg.Deploy.KeyPath,
					TargetDir: e.cfg.Deploy.TargetDir,
					Domain:    e.cfg.Deploy.Domain,
				}, e.logger)
			}

			gen := generator.NewService(client, e.logger)
			stepManager := core.NewDefaultStepManager(gen, e.fs, deployer)
			pipeline, err := core.NewPipeline(req.Request, stepManager, e.pub, e.logger)
			if err != nil {
				req.ResultChan <- err
				close(req.ResultChan)
				continue
			}
			err = pipeline.Execute(ctx)
			req.ResultChan <- err
			close(req.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

func (e *Engine) AddRequest(request *core.Request) chan error {
	resultChan := make(chan error, 1)
	e.requests <- ExecutionRequest{
		Request:    request,
		ResultChan: resultChan,
		CreatedAt:  time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	close(e.shutdownChan)

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("All workers shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, some workers may still be running")
	}
}
