package capabilities

// ModelCapabilities holds the per-model limits the chat service needs to
// enforce before a request leaves the process.
type ModelCapabilities struct {
	// ID is the provider model identifier, set while loading.
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"displayName"`

	// SupportsVision gates image content blocks.
	SupportsVision bool `yaml:"supports_vision" json:"supportsVision"`

	// ContextWindow is the provider's total token window.
	ContextWindow int `yaml:"context_window" json:"contextWindow"`

	// MaxOutput caps max_tokens for this model.
	MaxOutput int `yaml:"max_output" json:"maxOutput"`
}

// ProviderCapabilities is one provider's model list as declared in YAML.
type ProviderCapabilities struct {
	Provider string                       `yaml:"provider"`
	Models   map[string]ModelCapabilities `yaml:"models"`
}
