package vectordb

import "fmt"

// Kind names a concrete vector store backend. The backend is chosen once at
// startup from configuration; nothing selects or switches backends at
// request time.
type Kind string

const (
	// KindPinecone is the Pinecone-style backend: namespaces are logical
	// partitions within one index.
	KindPinecone Kind = "pinecone"

	// KindQdrant is the Qdrant-style backend: one collection per tenant,
	// created explicitly before first write.
	KindQdrant Kind = "qdrant"

	// KindLocal is the embedded BadgerDB backend for development and tests.
	KindLocal Kind = "local"
)

// ParseKind validates a backend name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPinecone, KindQdrant, KindLocal:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}
