package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/SchmitzHorst/ai-agent-service/logger"
	tellm "github.com/santiagomed/tellm/sdk"
	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	openAIClient *openai.Client
	config       *LlmConfig
	tellmClient  *tellm.Client
	logger       logger.Logger
}

func NewOpenAIClient(cfg *LlmConfig, l logger.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if l == nil {
		l = logger.NewNullLogger()
	}
	openAIClient := openai.NewClient(cfg.APIKey)
	var tellmClient *tellm.Client
	if cfg.TellmURL != "" {
		tellmClient = tellm.NewClient(cfg.TellmURL)
	}
	return &OpenAIClient{
		openAIClient: openAIClient,
		config:       cfg,
		tellmClient:  tellmClient,
		logger:       l,
	}, nil
}

// GetCompletion sends a request to the OpenAI API and returns the generated text
func (c *OpenAIClient) GetCompletion(prompt, responseType string) (string, error) {
	messages := []openai.ChatCompletionMessage{}
	if c.config.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: c.config.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	resp, err := c.openAIClient.CreateChatCompletion(
		context.Background(),
		openai.ChatCompletionRequest{
			Model:          c.config.ModelName,
			Messages:       messages,
			ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatType(responseType)},
		},
	)

	e := &openai.APIError{}
	if errors.As(err, &e) {
		switch e.HTTPStatusCode {
		case 401:
			return "", fmt.Errorf("unauthorized: invalid OpenAI API key")
		case 429:
			return "", fmt.Errorf("rate limited by OpenAI API")
		case 500:
			return "", fmt.Errorf("OpenAI server error")
		default:
			return "", fmt.Errorf("OpenAI API error: %v", e)
		}
	}
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}
	usage := resp.Usage
	res := resp.Choices[0].Message.Content
	if c.tellmClient != nil {
		err = c.tellmClient.Log(c.config.BatchID, prompt, res, c.config.ModelName, usage.PromptTokens, usage.CompletionTokens)
		if err != nil {
			c.logger.WithField("warning", err).Warn("failed to log to tellm")
		}
	}

	return res, nil
}
