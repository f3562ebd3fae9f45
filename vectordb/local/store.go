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


package local

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

const recordPrefix = "vec"

// Store is a vectordb.Store backed by an embedded BadgerDB. Records are
// keyed by tenant so namespaces are isolated by key prefix.
type Store struct {
	db     *badger.DB
	cache  *vectordb.NamespaceCache
	logger *slog.Logger
}

var _ vectordb.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithNamespaceCache shares an existing namespace cache.
func WithNamespaceCache(cache *vectordb.NamespaceCache) Option {
	return func(s *Store) {
		s.cache = cache
	}
}

// NewStore opens a local store at path. An empty path keeps everything in
// memory, which is what the tests use.
func NewStore(path string, opts ...Option) (*Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:     db,
		cache:  vectordb.NewNamespaceCache(),
		logger: slog.Default().With("component", "local-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// recordKey namespaces a record under its tenant.
func recordKey(tenantID, recordID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", recordPrefix, tenantID, recordID))
}

// tenantPrefix is the key prefix covering all of one tenant's records.
func tenantPrefix(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", recordPrefix, tenantID))
}

// EnsureNamespace validates the tenant ID and records the namespace as
// provisioned. Key-prefix namespaces need no remote creation.
func (s *Store) EnsureNamespace(ctx context.Context, tenantID string) error {
	if s.cache.Has(tenantID) {
		return nil
	}
	if err := core.ValidateTenantID(tenantID); err != nil {
		return fmt.Errorf("%w: %w", vectordb.ErrNamespace, err)
	}
	s.cache.MarkProvisioned(tenantID)
	return nil
}

// UpsertEmbeddings writes embeddings with their chunk payloads into the
// tenant's key space in one transaction per call.
func (s *Store) UpsertEmbeddings(ctx context.Context, embeddings [][]float32, chunks []core.Chunk, tenantID string) error {
	if !s.cache.Has(tenantID) {
		return fmt.Errorf("%w: namespace %s not ensured before upsert", vectordb.ErrUpsert, tenantID)
	}

	n := min(len(embeddings), len(chunks))
	err := s.db.Update(func(tx *badger.Txn) error {
		for i := 0; i < n; i++ {
			chunk := chunks[i]
			record := core.VectorRecord{
				ID:     core.RecordID(chunk.Title, chunk.Start, chunk.End),
				Vector: embeddings[i],
				Payload: core.Payload{
					Title: chunk.Title,
					Text:  chunk.Text,
					Start: chunk.Start,
					End:   chunk.End,
				},
			}

			data, err := json.Marshal(record)
			if err != nil {
				return err
			}
			if err := tx.Set(recordKey(tenantID, record.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", vectordb.ErrUpsert, err)
	}

	s.logger.Debug("upserted records", "namespace", tenantID, "records", n)
	return nil
}

// Retrieve scans the tenant's records, scores each against the query vector
// with cosine similarity and returns the topK best matches in descending
// score order.
func (s *Store) Retrieve(ctx context.Context, queryVector []float32, topK int, tenantID string) ([]core.QueryMatch, error) {
	var matches []core.QueryMatch

	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = tenantPrefix(tenantID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record core.VectorRecord
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return err
			}

			matches = append(matches, core.QueryMatch{
				ID:       record.ID,
				Score:    cosineSimilarity(queryVector, record.Vector),
				Metadata: record.Payload,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vectordb.ErrRetrieval, err)
	}

	slices.SortFunc(matches, func(a, b core.QueryMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// cosineSimilarity scores two vectors in [-1, 1]. Zero when either vector
// has no magnitude.
func cosineSimilarity(a, b []float32) float32 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
