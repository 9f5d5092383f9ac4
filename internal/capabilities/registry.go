// Package capabilities loads per-model limits from embedded YAML so that
// request validation can reject unknown models and clamp token budgets
// without a provider round trip.
package capabilities

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry maps model ids to their capabilities.
type Registry struct {
	mu     sync.RWMutex
	models map[string]ModelCapabilities
}

// NewRegistry loads every embedded provider file.
func NewRegistry() (*Registry, error) {
	r := &Registry{models: make(map[string]ModelCapabilities)}
	if err := r.loadProviderFile("anthropic"); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) loadProviderFile(provider string) error {
	data, err := configFiles.ReadFile(fmt.Sprintf("config/%s.yaml", provider))
	if err != nil {
		return fmt.Errorf("failed to read %s capabilities: %w", provider, err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("failed to parse %s capabilities: %w", provider, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, model := range caps.Models {
		model.ID = id
		r.models[id] = model
	}
	return nil
}

// Lookup returns the capabilities for a model id.
func (r *Registry) Lookup(model string) (ModelCapabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	caps, ok := r.models[model]
	return caps, ok
}

// ClampMaxTokens bounds a requested token budget by the model's output
// ceiling. A zero request gets the provided default, also clamped.
func (r *Registry) ClampMaxTokens(model string, requested, def int) int {
	out := requested
	if out <= 0 {
		out = def
	}
	if caps, ok := r.Lookup(model); ok && caps.MaxOutput > 0 && out > caps.MaxOutput {
		out = caps.MaxOutput
	}
	return out
}
