package llm

// LlmClient submits a single-message completion request and returns the
// first text segment of the response.
type LlmClient interface {
	GetCompletion(prompt, responseType string) (string, error)
}
