// Package local implements vectordb.Store on an embedded BadgerDB.
//
// It exists for development and tests: the full ingestion and query
// pipeline runs against it without any external service. Retrieval is a
// brute-force cosine similarity scan over the tenant's records, which is
// fine at the document counts a single process ingests.
package local
