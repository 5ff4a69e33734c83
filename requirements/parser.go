package requirements

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/SchmitzHorst/ai-agent-service/cleaner"
	"github.com/SchmitzHorst/ai-agent-service/llm"
	"github.com/SchmitzHorst/ai-agent-service/logger"
	"github.com/tidwall/gjson"
)

// ParseResult is the outcome of a parsing attempt. Either Complete is true
// and Requirements is populated, or Question and SessionID carry the next
// step of a clarification conversation.
type ParseResult struct {
	Complete     bool
	Requirements *AppRequirements
	Question     string
	SessionID    string
}

type session struct {
	initialInput string
	transcript   strings.Builder
}

// Parser extracts structured requirements from natural language, falling
// back to a clarification conversation when the input is too vague.
type Parser struct {
	client llm.LlmClient
	logger logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func NewParser(client llm.LlmClient, l logger.Logger) *Parser {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Parser{
		client:   client,
		logger:   l,
		sessions: make(map[string]*session),
	}
}

// Parse analyzes the input and either extracts requirements directly or
// opens a clarification session and returns the first question.
func (p *Parser) Parse(input string) (*ParseResult, error) {
	p.logger.Debug(fmt.Sprintf("Analyzing input: %s", input))

	analysis, err := p.client.GetCompletion(analysisPrompt(input), "json_object")
	if err != nil {
		return nil, fmt.Errorf("failed to analyze requirements: %w", err)
	}

	if gjson.Get(cleaner.ExtractJSON(analysis), "complete").Bool() {
		reqs, err := p.parseDirectly(input)
		if err == nil {
			return &ParseResult{Complete: true, Requirements: reqs}, nil
		}
		p.logger.Warn(fmt.Sprintf("Direct parsing failed, falling back to conversation: %v", err))
	}

	sessionID := llm.EnsureBatchID("")
	p.mu.Lock()
	p.sessions[sessionID] = &session{initialInput: input}
	p.mu.Unlock()

	question, err := p.client.GetCompletion(firstQuestionPrompt(input), "text")
	if err != nil {
		return nil, fmt.Errorf("failed to generate clarifying question: %w", err)
	}

	return &ParseResult{Question: strings.TrimSpace(question), SessionID: sessionID}, nil
}

// Continue feeds a user answer into an open clarification session.
func (p *Parser) Continue(sessionID, answer string) (*ParseResult, error) {
	p.mu.Lock()
	s, ok := p.sessions[sessionID]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}

	s.transcript.WriteString("User: " + answer + "\n")

	resp, err := p.client.GetCompletion(continuePrompt(s.initialInput, s.transcript.String(), answer), "json_object")
	if err != nil {
		return nil, fmt.Errorf("failed to continue conversation: %w", err)
	}

	payload := cleaner.ExtractJSON(resp)
	if gjson.Get(payload, "status").String() == "complete" {
		reqs, err := p.extractFromSession(s)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		delete(p.sessions, sessionID)
		p.mu.Unlock()
		return &ParseResult{Complete: true, Requirements: reqs}, nil
	}

	question := gjson.Get(payload, "question").String()
	if question == "" {
		// Model did not produce JSON. Treat the whole response as the question.
		question = strings.TrimSpace(resp)
	}
	s.transcript.WriteString("Assistant: " + question + "\n")
	return &ParseResult{Question: question, SessionID: sessionID}, nil
}

func (p *Parser) parseDirectly(input string) (*AppRequirements, error) {
	resp, err := p.client.GetCompletion(extractionPrompt(input), "json_object")
	if err != nil {
		return nil, fmt.Errorf("failed to extract requirements: %w", err)
	}
	return unmarshalRequirements(resp)
}

func (p *Parser) extractFromSession(s *session) (*AppRequirements, error) {
	resp, err := p.client.GetCompletion(sessionExtractionPrompt(s.initialInput, s.transcript.String()), "json_object")
	if err != nil {
		return nil, fmt.Errorf("failed to extract requirements from conversation: %w", err)
	}
	return unmarshalRequirements(resp)
}

func unmarshalRequirements(resp string) (*AppRequirements, error) {
	var reqs AppRequirements
	if err := json.Unmarshal([]byte(cleaner.ExtractJSON(resp)), &reqs); err != nil {
		return nil, fmt.Errorf("error parsing requirements: %w", err)
	}
	if err := reqs.Validate(); err != nil {
		return nil, err
	}
	return &reqs, nil
}
