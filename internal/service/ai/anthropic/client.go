// Package anthropic implements the model provider against the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	aimodels "heartline/internal/domain/models/ai"
	aisvc "heartline/internal/service/ai"
)

// Provider calls the Anthropic Messages API on behalf of the chat service.
type Provider struct {
	client *anthropic.Client
}

// NewProvider creates a provider with the given API key.
func NewProvider(apiKey string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &Provider{client: &client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "anthropic"
}

// SupportsModel reports whether the model id is an Anthropic model.
// Anthropic models start with "claude-".
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// GenerateResponse performs a blocking completion call.
func (p *Provider) GenerateResponse(ctx context.Context, req *aisvc.GenerateRequest) (*aimodels.ChatResponse, error) {
	params, err := buildMessageParams(req)
	if err != nil {
		return nil, err
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapProviderError(err)
	}

	return convertResponse(message), nil
}

// buildMessageParams translates a provider-neutral request into SDK params.
func buildMessageParams(req *aisvc.GenerateRequest) (anthropic.MessageNewParams, error) {
	messages, err := convertTurns(req.Turns)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  messages,
		MaxTokens: int64(req.MaxTokens),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{
			{Type: "text", Text: req.System},
		}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	return params, nil
}
