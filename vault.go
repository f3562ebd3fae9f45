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


package vaultai

import (
	"context"
	"io"
	"log/slog"

	"github.com/kristianmandrup/vault-ai/ai"
	"github.com/kristianmandrup/vault-ai/ai/openai"
	"github.com/kristianmandrup/vault-ai/chunk"
	"github.com/kristianmandrup/vault-ai/config"
	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/extract"
	"github.com/kristianmandrup/vault-ai/ingest"
	"github.com/kristianmandrup/vault-ai/prompt"
	"github.com/kristianmandrup/vault-ai/query"
	"github.com/kristianmandrup/vault-ai/vectordb"
	"github.com/kristianmandrup/vault-ai/vectordb/local"
	"github.com/kristianmandrup/vault-ai/vectordb/pinecone"
	"github.com/kristianmandrup/vault-ai/vectordb/qdrant"
)

// Vault is the top-level handle over the ingestion and query pipelines.
type Vault struct {
	cfg       *config.Config
	provider  ai.Provider
	store     vectordb.Store
	chunker   *chunk.Chunker
	builder   *prompt.Builder
	extractor extract.Extractor
	ingestor  *ingest.Orchestrator
	querier   *query.Orchestrator
	logger    *slog.Logger
}

// Option configures a Vault.
type Option func(*vaultOptions)

type vaultOptions struct {
	provider  ai.Provider
	counter   prompt.TokenCounter
	extractor extract.Extractor
}

// WithProvider injects a model provider, replacing the one built from
// configuration. Used by tests and by embedders running behind private
// gateways.
func WithProvider(provider ai.Provider) Option {
	return func(o *vaultOptions) {
		o.provider = provider
	}
}

// WithTokenCounter overrides the prompt token counter.
func WithTokenCounter(counter prompt.TokenCounter) Option {
	return func(o *vaultOptions) {
		o.counter = counter
	}
}

// WithExtractor overrides the text extractor, e.g. to install a PDF
// converter.
func WithExtractor(extractor extract.Extractor) Option {
	return func(o *vaultOptions) {
		o.extractor = extractor
	}
}

// New builds a Vault from configuration. The vector backend is selected
// once here; nothing switches backends at request time.
func New(cfg *config.Config, opts ...Option) (*Vault, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &vaultOptions{}
	for _, opt := range opts {
		opt(options)
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = openai.NewProvider(cfg.AI)
		if err != nil {
			return nil, err
		}
	}

	store, err := newStore(cfg)
	if err != nil {
		provider.Close()
		return nil, err
	}

	v := &Vault{
		cfg:      cfg,
		provider: provider,
		store:    store,
		logger:   slog.Default().With("component", "vault"),
	}

	v.chunker, err = chunk.NewChunker()
	if err != nil {
		v.Close()
		return nil, err
	}

	var builderOpts []prompt.Option
	if cfg.TokenLimit > 0 {
		builderOpts = append(builderOpts, prompt.WithTokenLimit(cfg.TokenLimit))
	}
	v.builder, err = prompt.NewBuilder(options.counter, builderOpts...)
	if err != nil {
		v.Close()
		return nil, err
	}

	v.extractor = options.extractor
	if v.extractor == nil {
		v.extractor = extract.NewDispatcher()
	}

	embedder, err := ai.NewBatchEmbedder(provider.Embedder(), cfg.AI)
	if err != nil {
		v.Close()
		return nil, err
	}

	ingestOpts := []ingest.Option{
		ingest.WithLimits(cfg.MaxFileBytes, cfg.MaxUploadBytes),
		ingest.WithFileTimeout(cfg.FileTimeout),
	}
	if cfg.PoolSize > 0 {
		ingestOpts = append(ingestOpts, ingest.WithPoolSize(cfg.PoolSize))
	}
	v.ingestor, err = ingest.NewOrchestrator(v.chunker, embedder, store, v.extractor, ingestOpts...)
	if err != nil {
		v.Close()
		return nil, err
	}

	v.querier, err = query.NewOrchestrator(embedder, provider.Completer(), store, v.builder,
		query.WithTopK(cfg.TopK),
		query.WithTimeout(cfg.QueryTimeout))
	if err != nil {
		v.Close()
		return nil, err
	}

	return v, nil
}

// newStore selects the vector backend from configuration.
func newStore(cfg *config.Config) (vectordb.Store, error) {
	switch cfg.Backend {
	case vectordb.KindPinecone:
		return pinecone.NewStore(pinecone.Config{
			Endpoint: cfg.BackendEndpoint,
			APIKey:   cfg.BackendAPIKey,
		})
	case vectordb.KindQdrant:
		return qdrant.NewStore(qdrant.Config{
			Endpoint: cfg.BackendEndpoint,
		})
	case vectordb.KindLocal:
		return local.NewStore(cfg.LocalPath)
	default:
		return nil, vectordb.ErrUnknownBackend
	}
}

// CallOption adjusts a single Ingest or Ask call.
type CallOption func(*callSettings)

type callSettings struct {
	apiKey string
}

// WithAPIKeyOverride runs the call with a caller-supplied model API key
// instead of the configured one.
func WithAPIKeyOverride(key string) CallOption {
	return func(s *callSettings) {
		s.apiKey = key
	}
}

// Ingest processes a batch of files into the tenant's namespace.
func (v *Vault) Ingest(ctx context.Context, tenantID string, files []ingest.File, opts ...CallOption) (*core.IngestionReport, error) {
	settings := applyCallOptions(opts)
	if settings.apiKey == "" {
		return v.ingestor.Ingest(ctx, tenantID, files)
	}

	provider, err := openai.NewProviderWithKey(v.cfg.AI, settings.apiKey)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	embedder, err := ai.NewBatchEmbedder(provider.Embedder(), v.cfg.AI)
	if err != nil {
		return nil, err
	}

	ingestor, err := ingest.NewOrchestrator(v.chunker, embedder, v.store, v.extractor,
		ingest.WithLimits(v.cfg.MaxFileBytes, v.cfg.MaxUploadBytes),
		ingest.WithFileTimeout(v.cfg.FileTimeout))
	if err != nil {
		return nil, err
	}
	defer ingestor.Release()

	return ingestor.Ingest(ctx, tenantID, files)
}

// Ask answers a question against the tenant's ingested documents.
func (v *Vault) Ask(ctx context.Context, tenantID, question string, opts ...CallOption) (*core.Answer, error) {
	settings := applyCallOptions(opts)
	if settings.apiKey == "" {
		return v.querier.Ask(ctx, tenantID, question)
	}

	provider, err := openai.NewProviderWithKey(v.cfg.AI, settings.apiKey)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	embedder, err := ai.NewBatchEmbedder(provider.Embedder(), v.cfg.AI)
	if err != nil {
		return nil, err
	}

	querier, err := query.NewOrchestrator(embedder, provider.Completer(), v.store, v.builder,
		query.WithTopK(v.cfg.TopK),
		query.WithTimeout(v.cfg.QueryTimeout))
	if err != nil {
		return nil, err
	}
	return querier.Ask(ctx, tenantID, question)
}

func applyCallOptions(opts []CallOption) *callSettings {
	settings := &callSettings{}
	for _, opt := range opts {
		opt(settings)
	}
	return settings
}

// Close releases the worker pool, the model provider and the vector store.
func (v *Vault) Close() error {
	if v.ingestor != nil {
		v.ingestor.Release()
	}
	if v.provider != nil {
		if err := v.provider.Close(); err != nil {
			v.logger.Error("error closing model provider", "err", err)
		}
	}
	if closer, ok := v.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			v.logger.Error("error closing vector store", "err", err)
			return err
		}
	}
	return nil
}
