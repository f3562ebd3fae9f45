package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/vectordb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTenant = "7f9c24e5-2f8a-4b1d-9cf1-3f1a2a6c0d42"

// fakeQdrant is a minimal in-memory Qdrant endpoint tracking requests.
type fakeQdrant struct {
	mu          sync.Mutex
	collections map[string]bool
	probes      int
	creations   int
	upserts     []upsertRequest
	searches    []searchRequest
	matches     []searchMatch
}

func newFakeQdrant() *fakeQdrant {
	return &fakeQdrant{collections: map[string]bool{}}
}

func (f *fakeQdrant) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodGet:
			f.probes++
			name := r.URL.Path[len("/collections/"):]
			if !f.collections[name] {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPut && r.URL.Path == "/collections/"+testTenant:
			f.creations++
			var cfg collectionConfig
			require.NoError(t, json.NewDecoder(r.Body).Decode(&cfg))
			assert.Equal(t, vectordb.VectorSize, cfg.Vectors.Size)
			assert.Equal(t, "Cosine", cfg.Vectors.Distance)
			f.collections[testTenant] = true
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPut && r.URL.Path == "/collections/"+testTenant+"/points":
			var req upsertRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.upserts = append(f.upserts, req)
			w.WriteHeader(http.StatusOK)

		case r.Method == http.MethodPost && r.URL.Path == "/collections/"+testTenant+"/points/search":
			var req searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.searches = append(f.searches, req)
			require.NoError(t, json.NewEncoder(w).Encode(searchResponse{Result: f.matches, Status: "ok"}))

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})
}

func makeChunks(n int) ([]core.Chunk, [][]float32) {
	chunks := make([]core.Chunk, n)
	embeddings := make([][]float32, n)
	for i := range chunks {
		chunks[i] = core.Chunk{Text: "chunk text", Title: "doc.txt", Start: i * 10, End: i*10 + 10}
		embeddings[i] = []float32{float32(i)}
	}
	return chunks, embeddings
}

func TestEnsureNamespace_CreatesOnceAndCaches(t *testing.T) {
	fake := newFakeQdrant()
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)

	require.NoError(t, store.EnsureNamespace(context.Background(), testTenant))
	require.NoError(t, store.EnsureNamespace(context.Background(), testTenant))

	assert.Equal(t, 1, fake.probes, "second call must be served from the cache")
	assert.Equal(t, 1, fake.creations)
}

func TestEnsureNamespace_ExistingCollectionNotRecreated(t *testing.T) {
	fake := newFakeQdrant()
	fake.collections[testTenant] = true
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)

	require.NoError(t, store.EnsureNamespace(context.Background(), testTenant))
	assert.Equal(t, 1, fake.probes)
	assert.Equal(t, 0, fake.creations)
}

func TestEnsureNamespace_FailedCreationDoesNotPoisonCache(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.NotFound(w, r)
			return
		}
		attempts++
		if attempts == 1 {
			http.Error(w, "disk full", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)

	err = store.EnsureNamespace(context.Background(), testTenant)
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrNamespace)

	// The failure must not have been cached: the next call retries creation.
	require.NoError(t, store.EnsureNamespace(context.Background(), testTenant))
	assert.Equal(t, 2, attempts)
}

func TestUpsertEmbeddings_BatchesOf500(t *testing.T) {
	fake := newFakeQdrant()
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)
	require.NoError(t, store.EnsureNamespace(context.Background(), testTenant))

	chunks, embeddings := makeChunks(1200)
	require.NoError(t, store.UpsertEmbeddings(context.Background(), embeddings, chunks, testTenant))

	require.Len(t, fake.upserts, 3)
	assert.Len(t, fake.upserts[0].Points, 500)
	assert.Len(t, fake.upserts[1].Points, 500)
	assert.Len(t, fake.upserts[2].Points, 200)

	first := fake.upserts[0].Points[0]
	assert.Equal(t, core.RecordNumericID("doc.txt", 0, 10), first.ID)
	assert.Equal(t, "chunk text", first.Payload["text"])
	assert.Equal(t, "doc.txt", first.Payload["title"])
	assert.Equal(t, "0", first.Payload["start"])
	assert.Equal(t, "10", first.Payload["end"])
}

func TestUpsertEmbeddings_PairsByPositionIgnoringTail(t *testing.T) {
	fake := newFakeQdrant()
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)
	require.NoError(t, store.EnsureNamespace(context.Background(), testTenant))

	chunks, embeddings := makeChunks(3)
	chunks = append(chunks, core.Chunk{Text: "extra", Title: "doc.txt", Start: 30, End: 35})

	require.NoError(t, store.UpsertEmbeddings(context.Background(), embeddings, chunks, testTenant))
	require.Len(t, fake.upserts, 1)
	assert.Len(t, fake.upserts[0].Points, 3)
}

func TestUpsertEmbeddings_RequiresEnsuredNamespace(t *testing.T) {
	store, err := NewStore(Config{Endpoint: "http://unused.invalid"})
	require.NoError(t, err)

	chunks, embeddings := makeChunks(1)
	err = store.UpsertEmbeddings(context.Background(), embeddings, chunks, testTenant)
	assert.ErrorIs(t, err, vectordb.ErrUpsert)
}

func TestRetrieve_MapsMatches(t *testing.T) {
	fake := newFakeQdrant()
	fake.matches = []searchMatch{
		{ID: 7, Score: 0.91, Payload: map[string]string{"title": "a.txt", "text": "first", "start": "0", "end": "5"}, Version: 3},
		{ID: 9, Score: 0.44, Payload: map[string]string{"title": "b.txt", "text": "second", "start": "5", "end": "11"}, Version: 3},
	}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)

	matches, err := store.Retrieve(context.Background(), []float32{1, 2}, 4, testTenant)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "7", matches[0].ID)
	assert.InDelta(t, 0.91, matches[0].Score, 1e-6)
	assert.Equal(t, core.Payload{Title: "a.txt", Text: "first", Start: 0, End: 5}, matches[0].Metadata)

	require.Len(t, fake.searches, 1)
	assert.Equal(t, 4, fake.searches[0].Top)
	assert.True(t, fake.searches[0].WithPayload)
}

func TestRetrieve_BackendErrorCarriesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "collection not found", http.StatusNotFound)
	}))
	defer server.Close()

	store, err := NewStore(Config{Endpoint: server.URL})
	require.NoError(t, err)

	_, err = store.Retrieve(context.Background(), []float32{1}, 4, testTenant)
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrRetrieval)
	assert.Contains(t, err.Error(), "404")
}
