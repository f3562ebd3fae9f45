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


package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kristianmandrup/vault-ai/ai"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

var (
	// ErrEndpointRequired indicates a remote backend was selected without
	// an endpoint.
	ErrEndpointRequired = errors.New("vector backend endpoint is required")

	// ErrAPIKeyRequired indicates a backend that authenticates requests was
	// selected without a key.
	ErrAPIKeyRequired = errors.New("vector backend API key is required")
)

// Config is the application configuration. It is loaded once at process
// start and not mutated afterwards.
type Config struct {
	// AI configures the embedding and completion clients.
	AI *ai.Config

	// Backend selects the vector store implementation.
	Backend vectordb.Kind

	// BackendEndpoint is the base URL of the remote vector backend.
	// Unused by the local backend.
	BackendEndpoint string

	// BackendAPIKey authenticates against the remote vector backend.
	// Required for the Pinecone backend.
	BackendAPIKey string

	// LocalPath is the data directory for the local backend. Empty keeps
	// the local backend in memory.
	LocalPath string

	// MaxFileBytes is the per-file ingestion size limit.
	MaxFileBytes int

	// MaxUploadBytes is the aggregate ingestion size limit per batch.
	MaxUploadBytes int

	// PoolSize is the ingestion worker pool size. Zero uses the default.
	PoolSize int

	// TopK is the number of matches retrieved per question.
	TopK int

	// TokenLimit is the prompt token budget.
	TokenLimit int

	// QueryTimeout bounds one question end to end.
	QueryTimeout time.Duration

	// FileTimeout bounds the processing of one ingested file.
	FileTimeout time.Duration
}

// Default returns a Config with working defaults: local in-memory vector
// backend and the public OpenAI API.
func Default() *Config {
	return &Config{
		AI:             ai.DefaultConfig(),
		Backend:        vectordb.KindLocal,
		MaxFileBytes:   0, // ingest defaults apply
		MaxUploadBytes: 0,
		TopK:           0, // query default applies
		TokenLimit:     0, // prompt default applies
	}
}

// Validate checks cross-field consistency. Zero values that have package
// defaults are allowed.
func (c *Config) Validate() error {
	if c.AI == nil {
		return errors.New("ai configuration is required")
	}
	if err := c.AI.Validate(); err != nil {
		return err
	}

	switch c.Backend {
	case vectordb.KindLocal:
		// endpoint and key unused
	case vectordb.KindPinecone:
		if c.BackendEndpoint == "" {
			return fmt.Errorf("%w: backend %s", ErrEndpointRequired, c.Backend)
		}
		if c.BackendAPIKey == "" {
			return fmt.Errorf("%w: backend %s", ErrAPIKeyRequired, c.Backend)
		}
	case vectordb.KindQdrant:
		if c.BackendEndpoint == "" {
			return fmt.Errorf("%w: backend %s", ErrEndpointRequired, c.Backend)
		}
	default:
		return fmt.Errorf("%w: %q", vectordb.ErrUnknownBackend, string(c.Backend))
	}

	return nil
}
