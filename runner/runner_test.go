package runner

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
)

type stubClient struct {
	calls    int
	response string
	err      error
}

func (s *stubClient) GetCompletion(prompt, responseType string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

type runnerHarness struct {
	runner       *Runner
	client       *stubClient
	factoryCalls int
	stdout       bytes.Buffer
	stderr       bytes.Buffer
}

func newHarness(client *stubClient, env map[string]string) *runnerHarness {
	h := &runnerHarness{client: client}
	factory := func(cfg *llm.LlmConfig, l logger.Logger) (llm.LlmClient, error) {
		h.factoryCalls++
		return client, nil
	}
	getenv := func(key string) string { return env[key] }
	h.runner = New(factory, getenv, &h.stdout, &h.stderr, logger.NewNullLogger())
	return h
}

func validEnv() map[string]string {
	return map[string]string{"ANTHROPIC_API_KEY": "test-key"}
}

func TestRunSuccess(t *testing.T) {
	client := &stubClient{response: "a completion"}
	h := newHarness(client, validEnv())

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 0, code)
	assert.Equal(t, "a completion\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, 1, client.calls)
}

func TestRunMissingPrompt(t *testing.T) {
	client := &stubClient{response: "should not be used"}
	h := newHarness(client, validEnv())

	code := h.runner.Run(nil)

	assert.Equal(t, 1, code)
	assert.Equal(t, "Usage: agent <prompt>\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())
	assert.Equal(t, 0, h.factoryCalls)
	assert.Equal(t, 0, client.calls)
}

func TestRunEmptyPrompt(t *testing.T) {
	client := &stubClient{response: "a completion"}
	h := newHarness(client, validEnv())

	code := h.runner.Run([]string{""})

	assert.Equal(t, 0, code)
	assert.Equal(t, "a completion\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, 1, client.calls)
}

func TestRunCredentialUnset(t *testing.T) {
	client := &stubClient{response: "should not be used"}
	h := newHarness(client, map[string]string{})

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "ANTHROPIC_API_KEY not set")
	assert.Empty(t, h.stdout.String())
	assert.Equal(t, 0, h.factoryCalls)
	assert.Equal(t, 0, client.calls)
}

func TestRunCredentialEmpty(t *testing.T) {
	client := &stubClient{response: "should not be used"}
	h := newHarness(client, map[string]string{"ANTHROPIC_API_KEY": ""})

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), "ANTHROPIC_API_KEY not set")
	assert.Empty(t, h.stdout.String())
	assert.Equal(t, 0, client.calls)
}

func TestRunEmptyResponse(t *testing.T) {
	client := &stubClient{err: llm.ErrNoContent}
	h := newHarness(client, validEnv())

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "no content returned from Anthropic")
	assert.Equal(t, 1, client.calls)
}

func TestRunTransportError(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	h := newHarness(client, validEnv())

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "connection refused")
}

func TestRunFactoryError(t *testing.T) {
	h := &runnerHarness{}
	factory := func(cfg *llm.LlmConfig, l logger.Logger) (llm.LlmClient, error) {
		h.factoryCalls++
		return nil, errors.New("anthropic API key is required")
	}
	h.runner = New(factory, func(string) string { return "test-key" }, &h.stdout, &h.stderr, nil)

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 1, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "anthropic API key is required")
}

func TestRunOutputFraming(t *testing.T) {
	client := &stubClient{response: "lines of code at rest"}
	h := newHarness(client, validEnv())

	code := h.runner.Run([]string{"write a haiku"})

	assert.Equal(t, 0, code)
	assert.Equal(t, "lines of code at rest\n", h.stdout.String())
}

func TestRunPassesDefaults(t *testing.T) {
	var got *llm.LlmConfig
	client := &stubClient{response: "ok"}
	h := &runnerHarness{}
	factory := func(cfg *llm.LlmConfig, l logger.Logger) (llm.LlmClient, error) {
		got = cfg
		return client, nil
	}
	h.runner = New(factory, func(string) string { return "test-key" }, &h.stdout, &h.stderr, nil)

	code := h.runner.Run([]string{"some prompt"})

	assert.Equal(t, 0, code)
	assert.Equal(t, llm.ProviderAnthropic, got.Provider)
	assert.Equal(t, "test-key", got.APIKey)
	assert.Equal(t, llm.DefaultModel, got.ModelName)
	assert.Equal(t, llm.DefaultMaxTokens, got.MaxTokens)
}
