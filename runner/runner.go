// Package runner implements the single-prompt completion command. It reads
// a prompt from the command line, forwards it to the configured model, and
// prints the first text segment of the response.
package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
)

const credentialEnvVar = "ANTHROPIC_API_KEY"

// ClientFactory builds an LLM client from a config. Injected so tests can
// substitute a stub without touching the network.
type ClientFactory func(cfg *llm.LlmConfig, l logger.Logger) (llm.LlmClient, error)

type Runner struct {
	factory ClientFactory
	getenv  func(string) string
	stdout  io.Writer
	stderr  io.Writer
	logger  logger.Logger
}

func New(factory ClientFactory, getenv func(string) string, stdout, stderr io.Writer, l logger.Logger) *Runner {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Runner{
		factory: factory,
		getenv:  getenv,
		stdout:  stdout,
		stderr:  stderr,
		logger:  l,
	}
}

// NewDefault returns a Runner wired to the process environment and the
// real Anthropic client.
func NewDefault(l logger.Logger) *Runner {
	return New(llm.NewClient, os.Getenv, os.Stdout, os.Stderr, l)
}

// Run executes one completion for the given arguments and returns the
// process exit code. args holds the positional arguments after the
// program name.
func (r *Runner) Run(args []string) int {
	// Only presence is checked. An empty prompt is still forwarded; the
	// service decides whether to reject it.
	if len(args) < 1 {
		fmt.Fprintln(r.stderr, "Usage: agent <prompt>")
		return 1
	}
	prompt := args[0]

	apiKey := r.getenv(credentialEnvVar)
	if apiKey == "" {
		fmt.Fprintf(r.stderr, "Error: %s not set\n", credentialEnvVar)
		return 1
	}

	client, err := r.factory(&llm.LlmConfig{
		Provider:  llm.ProviderAnthropic,
		APIKey:    apiKey,
		ModelName: llm.DefaultModel,
		MaxTokens: llm.DefaultMaxTokens,
	}, r.logger)
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return 1
	}

	text, err := client.GetCompletion(prompt, "text")
	if err != nil {
		fmt.Fprintf(r.stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintln(r.stdout, text)
	return 0
}
