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


package pinecone

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

// maxVectorsPerRequest bounds one upsert request; larger batches are split.
const maxVectorsPerRequest = 100

const defaultTimeout = 30 * time.Second

// Store is a vectordb.Store speaking the Pinecone HTTP API.
type Store struct {
	endpoint string
	apiKey   string
	client   *http.Client
	cache    *vectordb.NamespaceCache
	logger   *slog.Logger
}

var _ vectordb.Store = (*Store)(nil)

// Config holds the connection settings for one Pinecone index.
type Config struct {
	// Endpoint is the index base URL, e.g.
	// "https://my-index-abc123.svc.us-east1-gcp.pinecone.io".
	Endpoint string

	// APIKey is sent in the Api-Key header on every request.
	APIKey string

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

// NewStore creates a Pinecone-backed store.
func NewStore(cfg Config, opts ...Option) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("pinecone: endpoint required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	s := &Store{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		cache:    vectordb.NewNamespaceCache(),
		logger:   slog.Default().With("component", "pinecone-store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// vector is one record in an upsert request.
type vector struct {
	ID       string            `json:"ID"`
	Values   []float32         `json:"Values"`
	Metadata map[string]string `json:"Metadata"`
}

type upsertRequest struct {
	Vectors   []vector `json:"Vectors"`
	Namespace string   `json:"Namespace"`
}

type queryItem struct {
	Values []float32 `json:"Values"`
}

type queryRequest struct {
	TopK            int         `json:"TopK"`
	IncludeMetadata bool        `json:"IncludeMetadata"`
	Namespace       string      `json:"Namespace"`
	Queries         []queryItem `json:"Queries"`
}

type queryMatch struct {
	ID       string            `json:"ID"`
	Score    float32           `json:"Score"`
	Metadata map[string]string `json:"Metadata"`
}

type queryResult struct {
	Matches []queryMatch `json:"Matches"`
}

type queryResponse struct {
	Results []queryResult `json:"Results"`
}

// EnsureNamespace validates the tenant ID and records the namespace as
// provisioned. Pinecone namespaces are implicit partitions created on first
// write, so there is nothing to probe or create remotely.
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

// UpsertEmbeddings writes embeddings with their chunk metadata into the
// tenant's namespace, batching at maxVectorsPerRequest records per request.
func (s *Store) UpsertEmbeddings(ctx context.Context, embeddings [][]float32, chunks []core.Chunk, tenantID string) error {
	if !s.cache.Has(tenantID) {
		return fmt.Errorf("%w: namespace %s not ensured before upsert", vectordb.ErrUpsert, tenantID)
	}

	n := min(len(embeddings), len(chunks))
	vectors := make([]vector, 0, n)
	for i := 0; i < n; i++ {
		chunk := chunks[i]
		vectors = append(vectors, vector{
			ID:     core.RecordID(chunk.Title, chunk.Start, chunk.End),
			Values: embeddings[i],
			Metadata: map[string]string{
				"file_name": chunk.Title,
				"start":     strconv.Itoa(chunk.Start),
				"end":       strconv.Itoa(chunk.End),
				"title":     chunk.Title,
				"text":      chunk.Text,
			},
		})
	}

	url := s.endpoint + "/vectors/upsert"
	for start := 0; start < len(vectors); start += maxVectorsPerRequest {
		end := min(start+maxVectorsPerRequest, len(vectors))
		body := upsertRequest{
			Vectors:   vectors[start:end],
			Namespace: tenantID,
		}

		s.logger.Debug("upserting batch", "namespace", tenantID, "vectors", end-start)
		if err := s.post(ctx, url, body, nil); err != nil {
			return fmt.Errorf("%w: %w", vectordb.ErrUpsert, err)
		}
	}

	return nil
}

// Retrieve issues a single top-K query against the tenant's namespace.
func (s *Store) Retrieve(ctx context.Context, queryVector []float32, topK int, tenantID string) ([]core.QueryMatch, error) {
	body := queryRequest{
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       tenantID,
		Queries:         []queryItem{{Values: queryVector}},
	}

	var decoded queryResponse
	if err := s.post(ctx, s.endpoint+"/query", body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %w", vectordb.ErrRetrieval, err)
	}

	if len(decoded.Results) == 0 {
		return []core.QueryMatch{}, nil
	}

	matches := make([]core.QueryMatch, 0, len(decoded.Results[0].Matches))
	for _, m := range decoded.Results[0].Matches {
		matches = append(matches, core.QueryMatch{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: payloadFromMetadata(m.Metadata),
		})
	}
	return matches, nil
}

func payloadFromMetadata(metadata map[string]string) core.Payload {
	start, _ := strconv.Atoi(metadata["start"])
	end, _ := strconv.Atoi(metadata["end"])
	return core.Payload{
		Title: metadata["title"],
		Text:  metadata["text"],
		Start: start,
		End:   end,
	}
}

// post sends a JSON request and decodes the response into out when non-nil.
// Non-2xx responses come back as errors carrying the backend status.
func (s *Store) post(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", s.apiKey)

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
