package vectordb

import (
	"context"

	"github.com/kristianmandrup/vault-ai/core"
)

// VectorSize is the embedding dimension the stores are provisioned for
// (text-embedding-ada-002).
const VectorSize = 1536

// Store is the capability set every vector backend provides. All operations
// are scoped to a tenant namespace identified by a UUID; one tenant's
// records are never visible to another.
//
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// EnsureNamespace makes the tenant's namespace usable, creating it if
	// needed. Idempotent: when the namespace already exists (known from the
	// cache or a live probe) it is a no-op. Must succeed before the first
	// UpsertEmbeddings call for a tenant.
	EnsureNamespace(ctx context.Context, tenantID string) error

	// UpsertEmbeddings writes embeddings[i] with metadata from chunks[i]
	// into the tenant's namespace. Pairing is by position; indices beyond
	// the shorter of the two sequences are ignored.
	UpsertEmbeddings(ctx context.Context, embeddings [][]float32, chunks []core.Chunk, tenantID string) error

	// Retrieve returns up to topK matches for the query vector from the
	// tenant's namespace, ordered by descending similarity score.
	Retrieve(ctx context.Context, queryVector []float32, topK int, tenantID string) ([]core.QueryMatch, error)
}
