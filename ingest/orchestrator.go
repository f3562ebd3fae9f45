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


package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kristianmandrup/vault-ai/ai"
	"github.com/kristianmandrup/vault-ai/chunk"
	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/extract"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

const (
	// DefaultMaxFileBytes is the per-file size limit.
	DefaultMaxFileBytes = 3 << 20

	// DefaultMaxUploadBytes is the aggregate size limit for one batch.
	DefaultMaxUploadBytes = 3 << 20

	// DefaultFileTimeout bounds the wall-clock time spent on one file.
	DefaultFileTimeout = 2 * time.Minute
)

// File is one uploaded document to ingest.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Orchestrator ingests batches of files into a tenant's vector namespace.
type Orchestrator struct {
	chunker   *chunk.Chunker
	embedder  ai.Embedder
	store     vectordb.Store
	extractor extract.Extractor

	pool           *ants.Pool
	maxFileBytes   int
	maxUploadBytes int
	fileTimeout    time.Duration
	logger         *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithPoolSize sets the worker pool size for concurrent file processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger.With("component", "ingest")
		return nil
	}
}

// WithLimits overrides the per-file and aggregate size limits.
func WithLimits(maxFileBytes, maxUploadBytes int) Option {
	return func(o *Orchestrator) error {
		if maxFileBytes > 0 {
			o.maxFileBytes = maxFileBytes
		}
		if maxUploadBytes > 0 {
			o.maxUploadBytes = maxUploadBytes
		}
		return nil
	}
}

// WithFileTimeout bounds the time spent processing a single file.
func WithFileTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout > 0 {
			o.fileTimeout = timeout
		}
		return nil
	}
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(
	chunker *chunk.Chunker,
	embedder ai.Embedder,
	store vectordb.Store,
	extractor extract.Extractor,
	opts ...Option,
) (*Orchestrator, error) {
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		chunker:        chunker,
		embedder:       embedder,
		store:          store,
		extractor:      extractor,
		pool:           pool,
		maxFileBytes:   DefaultMaxFileBytes,
		maxUploadBytes: DefaultMaxUploadBytes,
		fileTimeout:    DefaultFileTimeout,
		logger:         slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}
	return o, nil
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// fileResult carries one file's outcome back to the report collector.
type fileResult struct {
	name string
	err  error
}

// Ingest processes every file in the batch against the tenant's namespace
// and returns a per-file report. Individual file failures are recorded in
// the report; only batch-level problems (bad tenant ID, oversized upload)
// return an error.
func (o *Orchestrator) Ingest(ctx context.Context, tenantID string, files []File) (*core.IngestionReport, error) {
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	var total int
	for _, file := range files {
		total += len(file.Data)
	}
	if total > o.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes over %d", ErrUploadTooLarge, total, o.maxUploadBytes)
	}

	results := make(chan fileResult, len(files))
	var wg sync.WaitGroup

	for _, file := range files {
		file := file
		wg.Add(1)
		err := o.pool.Submit(func() {
			defer wg.Done()
			results <- fileResult{name: file.Name, err: o.ingestFile(ctx, tenantID, file)}
		})
		if err != nil {
			wg.Done()
			results <- fileResult{name: file.Name, err: err}
		}
	}

	wg.Wait()
	close(results)

	report := core.NewIngestionReport()
	for result := range results {
		if result.err != nil {
			o.logger.Warn("file ingestion failed", "file", result.name, "err", result.err)
			report.RecordFailure(result.name, result.err.Error())
			continue
		}
		report.RecordSuccess(result.name)
	}
	report.Finalize()

	o.logger.Info("batch ingested",
		"namespace", tenantID,
		"succeeded", report.NumFilesSucceeded,
		"failed", report.NumFilesFailed)
	return report, nil
}

// ingestFile runs the full pipeline for one file. Each stage's failure is
// wrapped with the stage name so the report reads well.
func (o *Orchestrator) ingestFile(ctx context.Context, tenantID string, file File) error {
	ctx, cancel := context.WithTimeout(ctx, o.fileTimeout)
	defer cancel()

	if len(file.Data) > o.maxFileBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d",
			ErrFileTooLarge, file.Name, len(file.Data), o.maxFileBytes)
	}

	text, err := o.extractor.Extract(ctx, file.Name, file.ContentType, file.Data)
	if err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}

	chunks, err := o.chunker.Split(text, file.Name)
	if err != nil {
		return fmt.Errorf("chunk %s: %w", file.Name, err)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := o.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed %s: %w", file.Name, err)
	}

	if err := o.store.EnsureNamespace(ctx, tenantID); err != nil {
		return fmt.Errorf("ensure namespace for %s: %w", file.Name, err)
	}
	if err := o.store.UpsertEmbeddings(ctx, embeddings, chunks, tenantID); err != nil {
		return fmt.Errorf("upsert %s: %w", file.Name, err)
	}

	o.logger.Debug("file ingested", "file", file.Name, "chunks", len(chunks))
	return nil
}
