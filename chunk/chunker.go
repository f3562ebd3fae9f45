// Copyright 2025 The Vault AI Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kristianmandrup/vault-ai/core"
)

// DefaultMaxChars is the default upper bound on a chunk's text length.
const DefaultMaxChars = 1000

// Chunker splits document text into bounded chunks. Boundaries prefer
// natural breakpoints (paragraph, then sentence, then word) but a chunk
// never exceeds the configured maximum.
type Chunker struct {
	maxChars int
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithMaxChars sets the maximum chunk length in bytes. Must be at least
// utf8.UTFMax so every chunk can hold a whole rune.
// Default is DefaultMaxChars.
func WithMaxChars(maxChars int) Option {
	return func(c *Chunker) error {
		if maxChars < utf8.UTFMax {
			return ErrInvalidMaxChars
		}
		c.maxChars = maxChars
		return nil
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Split cuts text into an ordered sequence of chunks attributed to title.
// Spans are contiguous and non-overlapping: chunk i ends exactly where
// chunk i+1 starts, the first chunk starts at 0 and the last ends at
// len(text). Returns ErrEmptyInput for blank input; otherwise at least one
// chunk is produced.
func (c *Chunker) Split(text, title string) ([]core.Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	var chunks []core.Chunk
	pos := 0
	for pos < len(text) {
		end := pos + c.maxChars
		if end >= len(text) {
			end = len(text)
		} else {
			end = pos + c.cut(text[pos:end])
		}

		chunks = append(chunks, core.Chunk{
			Text:  text[pos:end],
			Title: title,
			Start: pos,
			End:   end,
		})
		pos = end
	}

	return chunks, nil
}

// cut picks a split point within window, preferring a paragraph break, then
// a sentence end, then a word boundary. The hard-cut fallback backs up to a
// rune boundary so a multibyte rune is never split across chunks, while the
// chunk still never exceeds maxChars.
func (c *Chunker) cut(window string) int {
	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return i + len("\n\n")
	}
	if i := lastSentenceEnd(window); i > 0 {
		return i
	}
	if i := lastWordBoundary(window); i > 0 {
		return i
	}
	if i := lastRuneBoundary(window); i > 0 {
		return i
	}
	return len(window)
}

// lastSentenceEnd returns the offset just past the last terminal punctuation
// mark that is followed by whitespace, or 0 if there is none.
func lastSentenceEnd(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if s[i] != ' ' && s[i] != '\n' && s[i] != '\t' {
			continue
		}
		switch s[i-1] {
		case '.', '!', '?':
			return i
		}
	}
	return 0
}

// lastWordBoundary returns the offset just past the last run of whitespace,
// or 0 if the window contains a single unbroken token.
func lastWordBoundary(s string) int {
	for i := len(s) - 1; i > 0; i-- {
		if unicode.IsSpace(rune(s[i])) {
			return i + 1
		}
	}
	return 0
}

// lastRuneBoundary returns the length of the longest prefix of s that ends
// on a rune boundary, or 0 if no complete rune fits.
func lastRuneBoundary(s string) int {
	for n := len(s); n > 0; n-- {
		r, size := utf8.DecodeLastRuneInString(s[:n])
		if r != utf8.RuneError || size > 1 {
			return n
		}
	}
	return 0
}
