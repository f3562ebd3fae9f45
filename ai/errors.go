package ai

import "errors"

var (
	// ErrEmbeddingFailed indicates an embedding call failed after exhausting
	// its retry budget. The underlying error from the last attempt is wrapped.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrCompletionFailed indicates a language model call failed.
	ErrCompletionFailed = errors.New("completion failed")

	// ErrMismatchedBatch indicates the model returned a different number of
	// embeddings than texts submitted.
	ErrMismatchedBatch = errors.New("embedding count does not match input count")

	// ErrInvalidMaxAttempts indicates a non-positive retry budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
