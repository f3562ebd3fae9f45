package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

const (
	testTenantA = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	testTenantB = "11111111-2222-3333-4444-555555555555"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStore_EnsureNamespace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.EnsureNamespace(ctx, testTenantA))
	assert.True(t, store.cache.Has(testTenantA))

	err := store.EnsureNamespace(ctx, "not-a-uuid")
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrNamespace)
}

func TestStore_UpsertRequiresEnsure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.UpsertEmbeddings(ctx, [][]float32{{1, 0}}, []core.Chunk{
		{Text: "hello", Title: "doc.txt", Start: 0, End: 5},
	}, testTenantA)
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrUpsert)
}

func TestStore_RetrieveRanksBySimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.EnsureNamespace(ctx, testTenantA))

	chunks := []core.Chunk{
		{Text: "points east", Title: "doc.txt", Start: 0, End: 11},
		{Text: "points north", Title: "doc.txt", Start: 11, End: 23},
		{Text: "points northeast", Title: "doc.txt", Start: 23, End: 39},
	}
	embeddings := [][]float32{
		{1, 0},
		{0, 1},
		{0.7, 0.7},
	}
	require.NoError(t, store.UpsertEmbeddings(ctx, embeddings, chunks, testTenantA))

	matches, err := store.Retrieve(ctx, []float32{1, 0}, 2, testTenantA)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "points east", matches[0].Metadata.Text)
	assert.Equal(t, "points northeast", matches[1].Metadata.Text)
	assert.Greater(t, matches[0].Score, matches[1].Score)
	assert.InDelta(t, 1.0, float64(matches[0].Score), 1e-6)
}

func TestStore_RetrieveTopKTruncates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.EnsureNamespace(ctx, testTenantA))

	var chunks []core.Chunk
	var embeddings [][]float32
	for i := 0; i < 10; i++ {
		chunks = append(chunks, core.Chunk{Text: "t", Title: "doc.txt", Start: i, End: i + 1})
		embeddings = append(embeddings, []float32{1, float32(i)})
	}
	require.NoError(t, store.UpsertEmbeddings(ctx, embeddings, chunks, testTenantA))

	matches, err := store.Retrieve(ctx, []float32{1, 0}, 4, testTenantA)
	require.NoError(t, err)
	assert.Len(t, matches, 4)
}

func TestStore_TenantIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.EnsureNamespace(ctx, testTenantA))
	require.NoError(t, store.EnsureNamespace(ctx, testTenantB))

	err := store.UpsertEmbeddings(ctx, [][]float32{{1, 0}}, []core.Chunk{
		{Text: "tenant a only", Title: "a.txt", Start: 0, End: 13},
	}, testTenantA)
	require.NoError(t, err)

	matches, err := store.Retrieve(ctx, []float32{1, 0}, 4, testTenantB)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStore_UpsertOverwritesByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.EnsureNamespace(ctx, testTenantA))

	chunk := core.Chunk{Text: "first", Title: "doc.txt", Start: 0, End: 5}
	require.NoError(t, store.UpsertEmbeddings(ctx, [][]float32{{1, 0}}, []core.Chunk{chunk}, testTenantA))

	chunk.Text = "second"
	require.NoError(t, store.UpsertEmbeddings(ctx, [][]float32{{1, 0}}, []core.Chunk{chunk}, testTenantA))

	matches, err := store.Retrieve(ctx, []float32{1, 0}, 4, testTenantA)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "second", matches[0].Metadata.Text)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.EnsureNamespace(ctx, testTenantA))
	require.NoError(t, store.UpsertEmbeddings(ctx, [][]float32{{1, 0}}, []core.Chunk{
		{Text: "durable", Title: "doc.txt", Start: 0, End: 7},
	}, testTenantA))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, reopened.Close())
	}()

	matches, err := reopened.Retrieve(ctx, []float32{1, 0}, 4, testTenantA)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "durable", matches[0].Metadata.Text)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{2, 0})), 1e-6)
	assert.InDelta(t, 0.0, float64(cosineSimilarity([]float32{1, 0}, []float32{0, 1})), 1e-6)
	assert.InDelta(t, -1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{-1, 0})), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
