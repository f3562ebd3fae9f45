// Package ingest drives the document ingestion pipeline: validate,
// extract, chunk, embed, and upsert each uploaded file into the vector
// store. Files within one batch are processed concurrently on a bounded
// worker pool and failures are accounted per file, so one bad file never
// aborts its siblings.
package ingest
