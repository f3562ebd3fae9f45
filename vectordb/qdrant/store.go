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


package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

const (
	// vectorDistance is the similarity metric collections are created with.
	vectorDistance = "Cosine"

	// maxPointsPerRequest bounds one points upsert; larger batches are split.
	maxPointsPerRequest = 500

	defaultTimeout = 30 * time.Second
)

// Store is a vectordb.Store speaking the Qdrant HTTP API. One collection is
// provisioned per tenant, named by the tenant UUID.
type Store struct {
	endpoint string
	client   *http.Client
	cache    *vectordb.NamespaceCache
	logger   *slog.Logger
}

var _ vectordb.Store = (*Store)(nil)

// Config holds the connection settings for one Qdrant instance.
type Config struct {
	// Endpoint is the Qdrant base URL, e.g. "http://localhost:6333".
	Endpoint string

	// Timeout bounds each HTTP request. Default 30s.
	Timeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Store) {
		s.client = client
	}
}

// WithNamespaceCache shares an existing namespace cache.
func WithNamespaceCache(cache *vectordb.NamespaceCache) Option {
	return func(s *Store) {
		s.cache = cache
	}
}

// NewStore creates a Qdrant-backed store.
func NewStore(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("qdrant: endpoint required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	s := &Store{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		cache:    vectordb.NewNamespaceCache(),
		logger:   slog.Default().With("component", "qdrant-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// collectionConfig is the collection creation body. Field names marshal
// as-is, matching the wire shape Qdrant-compatible deployments of this
// system expect.
type collectionConfig struct {
	Vectors vectorParams
}

type vectorParams struct {
	Size     int
	Distance string
}

// point is one record in a points upsert.
type point struct {
	ID      uint64
	Vector  []float32
	Payload map[string]string `json:",omitempty"`
}

type upsertRequest struct {
	Points []point `json:"points"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Top         int       `json:"top"`
	WithPayload bool      `json:"with_payload"`
}

type searchMatch struct {
	ID      uint64
	Score   float32
	Payload map[string]string
	Version int
}

type searchResponse struct {
	Result []searchMatch
	Status string
	Time   float64
}

// EnsureNamespace creates the tenant's collection unless it is already
// known to exist. The cache is consulted first; on a miss the collection is
// probed and, when absent, created with the fixed vector size and distance
// metric. A failed creation leaves the cache untouched.
func (s *Store) EnsureNamespace(ctx context.Context, tenantID string) error {
	if s.cache.Has(tenantID) {
		return nil
	}
	if err := core.ValidateTenantID(tenantID); err != nil {
		return fmt.Errorf("%w: %w", vectordb.ErrNamespace, err)
	}

	exists, err := s.collectionExists(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("%w: existence probe: %w", vectordb.ErrNamespace, err)
	}

	if !exists {
		body := collectionConfig{Vectors: vectorParams{
			Size:     vectordb.VectorSize,
			Distance: vectorDistance,
		}}
		s.logger.Info("creating collection", "collection", tenantID)
		if err := s.send(ctx, http.MethodPut, s.collectionURL(tenantID), body, nil); err != nil {
			return fmt.Errorf("%w: create collection: %w", vectordb.ErrNamespace, err)
		}
	}

	s.cache.MarkProvisioned(tenantID)
	return nil
}

// collectionExists probes the collection; a 404 means absent, any other
// non-2xx status is an error.
func (s *Store) collectionExists(ctx context.Context, tenantID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.collectionURL(tenantID), nil)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("backend status %d", resp.StatusCode)
	}
}

// UpsertEmbeddings writes embeddings with their chunk payloads into the
// tenant's collection, batching at maxPointsPerRequest points per request.
func (s *Store) UpsertEmbeddings(ctx context.Context, embeddings [][]float32, chunks []core.Chunk, tenantID string) error {
	if !s.cache.Has(tenantID) {
		return fmt.Errorf("%w: namespace %s not ensured before upsert", vectordb.ErrUpsert, tenantID)
	}

	n := min(len(embeddings), len(chunks))
	points := make([]point, 0, n)
	for i := 0; i < n; i++ {
		chunk := chunks[i]
		points = append(points, point{
			ID:     core.RecordNumericID(chunk.Title, chunk.Start, chunk.End),
			Vector: embeddings[i],
			Payload: map[string]string{
				"start": strconv.Itoa(chunk.Start),
				"end":   strconv.Itoa(chunk.End),
				"title": chunk.Title,
				"text":  chunk.Text,
			},
		})
	}

	url := s.collectionURL(tenantID) + "/points"
	for start := 0; start < len(points); start += maxPointsPerRequest {
		end := min(start+maxPointsPerRequest, len(points))

		s.logger.Debug("upserting points", "collection", tenantID, "points", end-start)
		if err := s.send(ctx, http.MethodPut, url, upsertRequest{Points: points[start:end]}, nil); err != nil {
			return fmt.Errorf("%w: %w", vectordb.ErrUpsert, err)
		}
	}

	return nil
}

// Retrieve issues a single search request against the tenant's collection.
func (s *Store) Retrieve(ctx context.Context, queryVector []float32, topK int, tenantID string) ([]core.QueryMatch, error) {
	body := searchRequest{
		Vector:      queryVector,
		Top:         topK,
		WithPayload: true,
	}

	var decoded searchResponse
	url := s.collectionURL(tenantID) + "/points/search"
	if err := s.send(ctx, http.MethodPost, url, body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", vectordb.ErrRetrieval, err)
	}

	matches := make([]core.QueryMatch, 0, len(decoded.Result))
	for _, m := range decoded.Result {
		start, _ := strconv.Atoi(m.Payload["start"])
		end, _ := strconv.Atoi(m.Payload["end"])
		matches = append(matches, core.QueryMatch{
			ID:    strconv.FormatUint(m.ID, 10),
			Score: m.Score,
			Metadata: core.Payload{
				Title: m.Payload["title"],
				Text:  m.Payload["text"],
				Start: start,
				End:   end,
			},
		})
	}
	return matches, nil
}

func (s *Store) collectionURL(tenantID string) string {
	return s.endpoint + "/collections/" + tenantID
}

// send issues a JSON request and decodes the response into out when non-nil.
// Non-2xx responses come back as errors carrying the backend status.
func (s *Store) send(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("backend status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
