package config

import "time"

const (
	// MaxTextBlockChars is the maximum length of a plain-string content or a
	// single text block. Part of the wire contract with the SPA.
	MaxTextBlockChars = 100_000

	// MaxBlocksPerMessage is the maximum number of content blocks in one
	// submitted message.
	MaxBlocksPerMessage = 20

	// MaxImageBase64Chars caps the base64 payload of a single image block.
	MaxImageBase64Chars = 5_000_000

	// MaxMessagesPerRequest caps the history array of a stateless chat call.
	MaxMessagesPerRequest = 100

	// MaxTokensLimit is the upper bound for the client-supplied maxTokens knob.
	MaxTokensLimit = 8192

	// DefaultMaxTokens is used when the client omits maxTokens.
	DefaultMaxTokens = 4096

	// MaxConversationTitleLength keeps titles short enough for list views.
	MaxConversationTitleLength = 200

	// MaxContextChars is the character budget for the serialized CRM context
	// inside the system prompt; longer renderings are truncated.
	MaxContextChars = 6000

	// MaxContextEvents and MaxContextGestures bound the list sections of a
	// context snapshot before serialization.
	MaxContextEvents   = 20
	MaxContextGestures = 20
)

// Rate limit policies. The AI policy is deliberately tighter than the auth
// policy; both are sliding windows keyed by user ID or client address.
const (
	AIRateLimit    = 30
	AIRateWindow   = time.Minute
	AuthRateLimit  = 20
	AuthRateWindow = 15 * time.Minute
)
