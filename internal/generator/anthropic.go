package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Generator using Anthropic's Claude API
type AnthropicProvider struct {
	client  *anthropic.Client
	model   string
	siteURL string

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey, model, siteURL string) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicProvider{
		client:  &client,
		model:   model,
		siteURL: siteURL,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (a *AnthropicProvider) Name() string {
	return "anthropic"
}

// templateHint serializes access to rnd; drafts run concurrently
func (a *AnthropicProvider) templateHint() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return TemplateHint(a.rnd)
}

// Draft sends the assembled context to Claude and parses the decision
func (a *AnthropicProvider) Draft(ctx context.Context, req Request) (*Decision, error) {
	systemPrompt := BuildSystemPrompt(req, a.siteURL, a.templateHint())
	userMessage := BuildUserMessage(req)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude API: %w", err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("Claude returned empty response")
	}

	return ParseDecision(responseText)
}
