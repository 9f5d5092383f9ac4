package ai

import (
	"context"

	aimodels "heartline/internal/domain/models/ai"
)

// GenerateRequest is the provider-neutral shape of a single model call,
// streaming or not. The system prompt is already composed; turns carry the
// full dialogue to replay.
type GenerateRequest struct {
	Model       string
	System      string
	Turns       []aimodels.ChatTurn
	MaxTokens   int
	Temperature *float64
}

// Provider abstracts one upstream model vendor. Implementations own their
// SDK client, translate turn content into the vendor's wire format, and map
// vendor failures to domain errors.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// SupportsModel reports whether the model id belongs to this provider.
	SupportsModel(model string) bool

	// GenerateResponse performs a blocking completion call.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*aimodels.ChatResponse, error)

	// StreamResponse starts a streaming completion. The returned channel
	// emits text deltas, then exactly one terminal event (metadata on
	// success, error otherwise), and is closed by the producer.
	StreamResponse(ctx context.Context, req *GenerateRequest) (<-chan aimodels.StreamEvent, error)
}
