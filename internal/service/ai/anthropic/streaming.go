package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	aimodels "heartline/internal/domain/models/ai"
	aisvc "heartline/internal/service/ai"
)

// StreamResponse starts a streaming completion. Deltas arrive on the
// returned channel as the API produces them; the producer goroutine sends
// one terminal event (metadata or error) and closes the channel.
func (p *Provider) StreamResponse(ctx context.Context, req *aisvc.GenerateRequest) (<-chan aimodels.StreamEvent, error) {
	params, err := buildMessageParams(req)
	if err != nil {
		return nil, err
	}

	// Buffered so a slow consumer does not stall the SDK read loop.
	eventChan := make(chan aimodels.StreamEvent, 10)

	go func() {
		defer close(eventChan)

		stream := p.client.Messages.NewStreaming(ctx, params)

		// Accumulates the full message so usage and stop reason are
		// available once the stream ends.
		message := anthropic.Message{}

		for stream.Next() {
			event := stream.Current()

			if err := message.Accumulate(event); err != nil {
				eventChan <- aimodels.StreamEvent{Err: fmt.Errorf("failed to accumulate message: %w", err)}
				return
			}

			text := textDelta(event)
			if text == "" {
				continue
			}

			select {
			case <-ctx.Done():
				eventChan <- aimodels.StreamEvent{Err: ctx.Err()}
				return
			case eventChan <- aimodels.StreamEvent{TextDelta: text}:
			}
		}

		if err := stream.Err(); err != nil {
			eventChan <- aimodels.StreamEvent{Err: mapProviderError(err)}
			return
		}

		eventChan <- aimodels.StreamEvent{
			Metadata: &aimodels.StreamMetadata{
				Model:        string(message.Model),
				InputTokens:  int(message.Usage.InputTokens),
				OutputTokens: int(message.Usage.OutputTokens),
				StopReason:   string(message.StopReason),
			},
		}
	}()

	return eventChan, nil
}

// textDelta extracts the incremental text from a stream event; every other
// event kind contributes nothing to the text channel.
func textDelta(event anthropic.MessageStreamEventUnion) string {
	if e, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent); ok {
		if e.Delta.Type == "text_delta" {
			return e.Delta.Text
		}
	}
	return ""
}
