// Package vectordb defines the vector-store abstraction the pipeline writes
// to and queries from, together with the tenant namespace cache shared by
// all backends.
//
// Concrete backends live in subpackages: pinecone and qdrant speak the
// respective HTTP APIs, local stores vectors in an embedded BadgerDB for
// development and tests. The backend is selected once at startup via Kind;
// everything past startup sees only the Store interface.
package vectordb
