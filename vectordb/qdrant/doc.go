// Package qdrant implements vectordb.Store against the Qdrant HTTP API.
// Each tenant gets a dedicated collection, created on first use.
package qdrant
