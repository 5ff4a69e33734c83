package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func anthropicTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *AnthropicClient) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewAnthropicClient(&LlmConfig{
		APIKey:    "test-key",
		ModelName: DefaultModel,
		MaxTokens: DefaultMaxTokens,
		BaseURL:   server.URL,
	}, nil)
	assert.NoError(t, err)
	return server, client
}

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	client, err := NewAnthropicClient(&LlmConfig{}, nil)
	assert.Nil(t, client)
	assert.EqualError(t, err, "anthropic API key is required")
}

func TestGetCompletion(t *testing.T) {
	var gotReq AnthropicRequest
	var gotHeaders http.Header
	_, client := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header
		err := json.NewDecoder(r.Body).Decode(&gotReq)
		assert.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		resp := AnthropicResponse{}
		resp.Content = []struct {
			Text string `json:"text"`
			Type string `json:"type"`
		}{
			{Text: "lines of code at rest", Type: "text"},
		}
		json.NewEncoder(w).Encode(resp)
	})

	text, err := client.GetCompletion("write a haiku", "text")
	assert.NoError(t, err)
	assert.Equal(t, "lines of code at rest", text)

	assert.Equal(t, "test-key", gotHeaders.Get("x-api-key"))
	assert.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	assert.Equal(t, "application/json", gotHeaders.Get("content-type"))

	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.Equal(t, DefaultMaxTokens, gotReq.MaxTokens)
	assert.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "write a haiku", gotReq.Messages[0].Content)
	assert.Empty(t, gotReq.System)
}

func TestGetCompletionSystemPrompt(t *testing.T) {
	var gotReq AnthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		w.Write([]byte(`{"content":[{"text":"ok","type":"text"}]}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient(&LlmConfig{
		APIKey:  "test-key",
		System:  "You are an architect.",
		BaseURL: server.URL,
	}, nil)
	assert.NoError(t, err)

	_, err = client.GetCompletion("design something", "text")
	assert.NoError(t, err)
	assert.Equal(t, "You are an architect.", gotReq.System)
}

func TestGetCompletionEmptyContent(t *testing.T) {
	_, client := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"content":[]}`))
	})

	text, err := client.GetCompletion("write a haiku", "text")
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestGetCompletionAPIError(t *testing.T) {
	_, client := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	text, err := client.GetCompletion("write a haiku", "text")
	assert.Empty(t, text)
	assert.EqualError(t, err, "anthropic API error: authentication_error - invalid x-api-key")
}

func TestGetCompletionMalformedError(t *testing.T) {
	_, client := anthropicTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json"))
	})

	_, err := client.GetCompletion("write a haiku", "text")
	assert.EqualError(t, err, "anthropic API returned status 500")
}

func TestNewClientDefaults(t *testing.T) {
	cfg := &LlmConfig{APIKey: "test-key"}
	client, err := NewClient(cfg, nil)
	assert.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, client)
	assert.Equal(t, DefaultModel, cfg.ModelName)
	assert.Equal(t, DefaultMaxTokens, cfg.MaxTokens)
}

func TestNewClientUnknownProvider(t *testing.T) {
	_, err := NewClient(&LlmConfig{Provider: "bard", APIKey: "k"}, nil)
	assert.Error(t, err)
}
