// Package chunk splits raw document text into ordered, bounded chunks.
//
// Chunks carry offsets into the source document so any chunk can be traced
// back to the span it was cut from. The splitter is deterministic: the same
// input always produces the same chunk sequence.
package chunk
