package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings.
	// The returned slice contains one embedding per input text, in the same
	// order as the inputs. Every embedding produced for a given model has
	// the same length.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Completer answers an assembled prompt with a language model.
// Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the prompt to the model and returns the generated text
	// together with the total token count the call consumed.
	Complete(ctx context.Context, prompt string) (string, int, error)
}

// Provider aggregates the model services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Completer returns the language model service.
	Completer() Completer

	// Close releases resources held by the provider and its services.
	Close() error
}
