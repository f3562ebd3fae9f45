// Package pinecone implements vectordb.Store against the Pinecone HTTP API.
// Tenant namespaces map to logical partitions within a single index.
package pinecone
