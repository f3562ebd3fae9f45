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
	"context"
	"fmt"
	"log/slog"
	"time"
)

// BatchEmbedder wraps an Embedder with request shaping: arbitrarily long
// input sequences are partitioned into fixed-size sub-batches to respect
// external API limits, one inner call is issued per sub-batch, and results
// are concatenated in input order. Each sub-batch call is retried on failure
// up to a fixed budget with a fixed inter-attempt delay; once the budget is
// exhausted the whole batch fails, never silently dropping a sub-batch.
//
// Sub-batches are issued sequentially so retry behavior stays deterministic.
type BatchEmbedder struct {
	inner       Embedder
	batchSize   int
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

var _ Embedder = (*BatchEmbedder)(nil)

// BatchOption configures a BatchEmbedder.
type BatchOption func(*BatchEmbedder)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchEmbedder) {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// WithRetry overrides the retry budget and inter-attempt delay.
func WithRetry(maxAttempts int, delay time.Duration) BatchOption {
	return func(b *BatchEmbedder) {
		b.maxAttempts = maxAttempts
		b.retryDelay = delay
	}
}

// NewBatchEmbedder creates a batching embedder around inner using the
// sub-batch size and retry policy from cfg.
func NewBatchEmbedder(inner Embedder, cfg *Config, opts ...BatchOption) (*BatchEmbedder, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner embedder required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &BatchEmbedder{
		inner:       inner,
		batchSize:   cfg.BatchSize,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		logger:      slog.Default().With("component", "batch-embedder"),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.maxAttempts <= 0 {
		return nil, ErrInvalidMaxAttempts
	}
	return b, nil
}

// EmbedTexts embeds texts in sub-batches and returns one embedding per
// input, in input order.
func (b *BatchEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += b.batchSize {
		end := min(start+b.batchSize, len(texts))
		sub := texts[start:end]

		b.logger.Debug("embedding sub-batch", "start", start, "size", len(sub))

		var result [][]float32
		err := retryFixed(ctx, func() error {
			var callErr error
			result, callErr = b.inner.EmbedTexts(ctx, sub)
			return callErr
		}, b.maxAttempts, b.retryDelay)
		if err != nil {
			return nil, fmt.Errorf("%w: sub-batch at %d: %w", ErrEmbeddingFailed, start, err)
		}

		if len(result) != len(sub) {
			return nil, fmt.Errorf("%w: sub-batch at %d: expected %d, received %d",
				ErrMismatchedBatch, start, len(sub), len(result))
		}

		embeddings = append(embeddings, result...)
	}

	return embeddings, nil
}

// EmbedText is the single-item convenience form, implemented as a
// one-element batch.
func (b *BatchEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := b.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}
