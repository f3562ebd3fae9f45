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


package extract

import (
	"context"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"
)

// Extractor converts raw file bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, filename, contentType string, data []byte) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	return f(ctx, filename, contentType, data)
}

// PlainText extracts text from files that are already text. It rejects
// content that is not valid UTF-8.
type PlainText struct{}

var _ Extractor = (*PlainText)(nil)

func (PlainText) Extract(_ context.Context, filename, _ string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrExtraction, filename)
	}
	return string(data), nil
}

// Dispatcher routes extraction by content type. Text types go through
// PlainText; application/pdf goes to an injected PDF converter when one
// is configured.
type Dispatcher struct {
	plain Extractor
	pdf   Extractor
}

var _ Extractor = (*Dispatcher)(nil)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPDFExtractor installs a converter for application/pdf content.
func WithPDFExtractor(pdf Extractor) Option {
	return func(d *Dispatcher) {
		d.pdf = pdf
	}
}

// NewDispatcher creates a Dispatcher with plain-text support built in.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{plain: PlainText{}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Extract(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	switch {
	case mediaType == "application/pdf":
		if d.pdf == nil {
			return "", fmt.Errorf("%w: no PDF extractor configured for %s", ErrExtraction, filename)
		}
		return d.pdf.Extract(ctx, filename, mediaType, data)
	case strings.HasPrefix(mediaType, "text/"),
		mediaType == "application/json",
		mediaType == "application/xml",
		mediaType == "":
		return d.plain.Extract(ctx, filename, mediaType, data)
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, mediaType, filename)
	}
}

// ContentTypeForFilename guesses a content type from the file extension,
// defaulting to text/plain.
func ContentTypeForFilename(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "text/plain"
	}
	if ct := mime.TypeByExtension(filename[idx:]); ct != "" {
		return ct
	}
	return "text/plain"
}
