package core

// Chunk is a bounded span of a source document's text. Start and End are
// character offsets into the original document, so every chunk can be traced
// back to the span it came from.
type Chunk struct {
	Text  string
	Title string
	Start int
	End   int
}

// Payload is the metadata stored alongside a vector record. It mirrors the
// chunk the vector was derived from.
type Payload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// VectorRecord is a stored embedding with its payload. A record is owned by
// exactly one tenant namespace.
type VectorRecord struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// QueryMatch is a single retrieval result. Sequences of matches are ordered
// by descending similarity score.
type QueryMatch struct {
	ID       string
	Score    float32
	Metadata Payload
}

// Snippet is one retrieved context returned to the caller of a query.
type Snippet struct {
	Text  string `json:"text"`
	Title string `json:"title"`
}

// Answer is the result of one question against a tenant's documents.
type Answer struct {
	Answer  string    `json:"answer"`
	Context []Snippet `json:"context"`
	Tokens  int       `json:"tokens"`
}
