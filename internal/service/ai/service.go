// Package ai exposes the chat service: request validation, model
// resolution, prompt composition, and dispatch to a model provider.
package ai

import (
	"context"
	"fmt"
	"log/slog"

	"heartline/internal/capabilities"
	"heartline/internal/config"
	"heartline/internal/domain"
	aimodels "heartline/internal/domain/models/ai"
	"heartline/internal/service/prompt"
)

// ChatService turns validated chat requests into provider calls. It is
// stateless; conversation persistence lives in the conversation service,
// which delegates the model call here.
type ChatService struct {
	provider       Provider
	registry       *capabilities.Registry
	logger         *slog.Logger
	defaultModel   string
	fallbackPrompt string
}

// NewChatService wires a chat service onto one provider.
func NewChatService(provider Provider, registry *capabilities.Registry, logger *slog.Logger, defaultModel, fallbackPrompt string) *ChatService {
	return &ChatService{
		provider:       provider,
		registry:       registry,
		logger:         logger,
		defaultModel:   defaultModel,
		fallbackPrompt: fallbackPrompt,
	}
}

// Chat performs a blocking completion for the given request.
func (s *ChatService) Chat(ctx context.Context, req *ChatRequest) (*aimodels.ChatResponse, error) {
	genReq, err := s.buildGenerateRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.provider.GenerateResponse(ctx, genReq)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "chat completed",
		"model", resp.Model,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"stop_reason", resp.StopReason,
	)
	return resp, nil
}

// ChatStream starts a streaming completion. The returned channel follows
// the Provider contract: deltas, one terminal event, then close.
func (s *ChatService) ChatStream(ctx context.Context, req *ChatRequest) (<-chan aimodels.StreamEvent, error) {
	genReq, err := s.buildGenerateRequest(req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "chat stream starting", "model", genReq.Model, "turns", len(genReq.Turns))
	return s.provider.StreamResponse(ctx, genReq)
}

// Validate runs every check a dispatch would: structural limits, sampling
// bounds, and model resolution. Callers that persist state around the model
// call run this first so a rejected request leaves nothing behind.
func (s *ChatService) Validate(req *ChatRequest) error {
	if err := ValidateChatRequest(req); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	_, err := s.resolveModel(req.Model)
	return err
}

// resolveModel applies the default and checks the registry and provider.
func (s *ChatService) resolveModel(requested string) (string, error) {
	model := requested
	if model == "" {
		model = s.defaultModel
	}
	if _, ok := s.registry.Lookup(model); !ok {
		return "", &domain.ValidationError{Message: fmt.Sprintf("unknown model %q", model)}
	}
	if !s.provider.SupportsModel(model) {
		return "", &domain.ValidationError{Message: fmt.Sprintf("model %q is not served by provider %s", model, s.provider.Name())}
	}
	return model, nil
}

// buildGenerateRequest validates the request, resolves the model, and
// composes the system prompt.
func (s *ChatService) buildGenerateRequest(req *ChatRequest) (*GenerateRequest, error) {
	if err := ValidateChatRequest(req); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	model, err := s.resolveModel(req.Model)
	if err != nil {
		return nil, err
	}

	requested := 0
	if req.MaxTokens != nil {
		requested = *req.MaxTokens
	}
	maxTokens := s.registry.ClampMaxTokens(model, requested, config.DefaultMaxTokens)

	system := prompt.Compose(prompt.Input{
		ModeName: req.Mode,
		Context:  req.Context,
		Locale:   req.Locale,
		Fallback: s.fallbackPrompt,
	})

	return &GenerateRequest{
		Model:       model,
		System:      system,
		Turns:       req.Messages,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	}, nil
}
