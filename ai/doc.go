// Package ai defines the contracts for the external embedding and language
// models, plus the batching and retry layer the ingestion pipeline uses to
// call them.
//
// The model HTTP protocols themselves are delegated to client libraries
// behind the Embedder and Completer interfaces; this package only shapes
// requests (sub-batching) and bounds failures (fixed-delay retry).
package ai
