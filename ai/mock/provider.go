package mock

import "github.com/kristianmandrup/vault-ai/ai"

// Provider is a test double for ai.Provider bundling the mock services.
type Provider struct {
	MockEmbedder  *Embedder
	MockCompleter *Completer
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider with fresh mock services.
func NewProvider() *Provider {
	return &Provider{
		MockEmbedder:  NewEmbedder(),
		MockCompleter: NewCompleter("mock answer", 42),
	}
}

// Embedder returns the mock embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.MockEmbedder
}

// Completer returns the mock language model service.
func (p *Provider) Completer() ai.Completer {
	return p.MockCompleter
}

// Close is a no-op.
func (p *Provider) Close() error {
	return nil
}
