// Package mock provides deterministic test doubles for the ai interfaces.
// Embeddings are derived from an FNV hash of the input text, so the same
// text always maps to the same vector without any network access.
package mock
