package ai

// Usage holds token accounting reported by the provider for one exchange.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// ChatResponse is the result of a completed (non-streaming) model call.
type ChatResponse struct {
	Content    string `json:"content"`
	Model      string `json:"model"`
	Usage      Usage  `json:"usage"`
	StopReason string `json:"stopReason"`
}

// StreamMetadata carries final stream statistics, delivered once after the
// last text delta.
type StreamMetadata struct {
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// StreamEvent is one item pushed by a streaming provider call. Exactly one
// field is set: TextDelta for incremental content, Metadata once at end of
// stream, or Err if the stream failed. The producer closes the channel after
// the final event.
type StreamEvent struct {
	TextDelta string
	Metadata  *StreamMetadata
	Err       error
}
