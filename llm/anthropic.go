package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/SchmitzHorst/ai-agent-service/utils"
	tellm "github.com/santiagomed/tellm/sdk"
)

const (
	messagesURL      = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

// ErrNoContent is returned when the API responds without any content segments.
var ErrNoContent = errors.New("no content returned from Anthropic")

type AnthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
		Type string `json:"type"`
	} `json:"content"`
	ID           string  `json:"id"`
	Model        string  `json:"model"`
	Role         string  `json:"role"`
	StopReason   string  `json:"stop_reason"`
	StopSequence *string `json:"stop_sequence"`
	Type         string  `json:"type"`
	Usage        struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type AnthropicErrorResponse struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

type AnthropicRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AnthropicClient struct {
	config      *LlmConfig
	tellmClient *tellm.Client
	logger      logger.Logger
	httpClient  *http.Client
	url         string
}

func NewAnthropicClient(cfg *LlmConfig, l logger.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	if l == nil {
		l = logger.NewNullLogger()
	}
	url := cfg.BaseURL
	if url == "" {
		url = messagesURL
	}
	var tellmClient *tellm.Client
	if cfg.TellmURL != "" {
		tellmClient = tellm.NewClient(cfg.TellmURL)
	}
	return &AnthropicClient{
		config:      cfg,
		tellmClient: tellmClient,
		logger:      l,
		httpClient:  &http.Client{},
		url:         url,
	}, nil
}

// GetCompletion sends a single user message to the Anthropic Messages API and
// returns the text of the first content segment. The responseType parameter is
// accepted for interface parity; Anthropic has no response-format switch.
func (a *AnthropicClient) GetCompletion(prompt, responseType string) (string, error) {
	a.logger.Debug(fmt.Sprintf("Requesting completion for prompt: %s", utils.TruncateString(prompt, 120)))

	req := AnthropicRequest{
		Model:     a.config.ModelName,
		MaxTokens: a.config.MaxTokens,
		System:    a.config.System,
		Messages: []Message{
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %v", err)
	}

	httpReq, err := http.NewRequest("POST", a.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %v", err)
	}

	httpReq.Header.Set("x-api-key", a.config.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp AnthropicErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return "", fmt.Errorf("anthropic API returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("anthropic API error: %s - %s", errResp.Error.Type, errResp.Error.Message)
	}

	var anthropicResp AnthropicResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %v", err)
	}

	if len(anthropicResp.Content) == 0 {
		return "", ErrNoContent
	}

	res := anthropicResp.Content[0].Text
	if a.tellmClient != nil {
		err = a.tellmClient.Log(a.config.BatchID, prompt, res, a.config.ModelName, anthropicResp.Usage.InputTokens, anthropicResp.Usage.OutputTokens)
		if err != nil {
			a.logger.WithField("warning", err).Warn("failed to log to tellm")
		}
	}

	return res, nil
}
