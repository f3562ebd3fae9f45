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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Defaults for the batching and retry layer.
const (
	DefaultBatchSize   = 100
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
)

// Config holds configuration for the model services.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API.
	// Example: "https://api.openai.com/v1"
	Host string

	// APIKey authenticates requests. A per-request caller-supplied key may
	// override it at the orchestrator level.
	APIKey string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "text-embedding-ada-002"
	EmbeddingModel string

	// CompletionModel is the model identifier for answering questions.
	// Example: "gpt-3.5-turbo"
	CompletionModel string

	// BatchSize is the maximum number of texts sent in one embedding call.
	// Default: 100
	BatchSize int

	// MaxAttempts is the per-sub-batch retry budget for embedding calls.
	// Default: 3
	MaxAttempts int

	// RetryDelay is the fixed delay between embedding retry attempts.
	// Default: 5s
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the API base URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithCompletionModel sets the completion model identifier.
func WithCompletionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CompletionModel = model
	}
}

// WithBatchSize sets the embedding sub-batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// DefaultConfig returns a Config with defaults for the public OpenAI API.
func DefaultConfig() *Config {
	return &Config{
		Host:            "https://api.openai.com/v1",
		EmbeddingModel:  "text-embedding-ada-002",
		CompletionModel: "gpt-3.5-turbo",
		BatchSize:       DefaultBatchSize,
		MaxAttempts:     DefaultMaxAttempts,
		RetryDelay:      DefaultRetryDelay,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. Most
// OpenAI-compatible APIs expect the /v1 suffix on the base URL.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.CompletionModel == "" {
		return errors.New("ai config: CompletionModel is required")
	}
	if c.BatchSize <= 0 {
		return errors.New("ai config: BatchSize must be positive")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("ai config: MaxAttempts must be positive")
	}
	if c.RetryDelay < 0 {
		return errors.New("ai config: RetryDelay cannot be negative")
	}
	return nil
}
