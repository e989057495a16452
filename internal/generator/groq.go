package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// GroqProvider implements Generator using Groq's chat-completions API
type GroqProvider struct {
	apiKey      string
	model       string
	siteURL     string
	temperature float64
	maxTokens   int
	client      *http.Client

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGroqProvider creates a new Groq provider
func NewGroqProvider(apiKey, model, siteURL string, temperature float64, maxTokens int, timeout time.Duration) *GroqProvider {
	return &GroqProvider{
		apiKey:      apiKey,
		model:       model,
		siteURL:     siteURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: timeout},
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *GroqProvider) Name() string {
	return "groq"
}

// templateHint serializes access to rnd; drafts run concurrently
func (g *GroqProvider) templateHint() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return TemplateHint(g.rnd)
}

// groqRequest represents the chat-completions request body
type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqResponse represents the chat-completions response
type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Draft sends the assembled context to Groq and parses the decision
func (g *GroqProvider) Draft(ctx context.Context, req Request) (*Decision, error) {
	systemPrompt := BuildSystemPrompt(req, g.siteURL, g.templateHint())
	userMessage := BuildUserMessage(req)

	reqBody := groqRequest{
		Model: g.model,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", groqAPIURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Groq API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Groq API returned status %d: %s", resp.StatusCode, string(body))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(body, &groqResp); err != nil {
		return nil, fmt.Errorf("failed to parse Groq response: %w", err)
	}

	if groqResp.Error != nil {
		return nil, fmt.Errorf("Groq API error: %s - %s", groqResp.Error.Type, groqResp.Error.Message)
	}

	if len(groqResp.Choices) == 0 {
		return nil, fmt.Errorf("Groq returned empty response")
	}

	return ParseDecision(groqResp.Choices[0].Message.Content)
}
