package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristianmandrup/vault-ai/ai/mock"
	"github.com/kristianmandrup/vault-ai/chunk"
	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/extract"
	"github.com/kristianmandrup/vault-ai/vectordb/local"
)

const testTenant = "7d444840-9dc0-11d1-b245-5ffdce74fad2"

func newTestOrchestrator(t *testing.T, opts ...Option) (*Orchestrator, *local.Store) {
	t.Helper()

	store, err := local.NewStore("")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	chunker, err := chunk.NewChunker()
	require.NoError(t, err)

	o, err := NewOrchestrator(chunker, mock.NewEmbedder(), store, extract.NewDispatcher(), opts...)
	require.NoError(t, err)
	t.Cleanup(o.Release)

	return o, store
}

func TestOrchestrator_IngestSingleFile(t *testing.T) {
	o, store := newTestOrchestrator(t)
	ctx := context.Background()

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 11)
	files := []File{{Name: "fox.txt", ContentType: "text/plain", Data: []byte(text)}}

	report, err := o.Ingest(ctx, testTenant, files)
	require.NoError(t, err)

	assert.Equal(t, core.ReportMessageAllSucceeded, report.Message)
	assert.Equal(t, 1, report.NumFilesSucceeded)
	assert.Equal(t, 0, report.NumFilesFailed)
	assert.Equal(t, []string{"fox.txt"}, report.SuccessfulFileNames)

	matches, err := store.Retrieve(ctx, mock.DeterministicVector(text, mock.DefaultDimension), 4, testTenant)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "fox.txt", matches[0].Metadata.Title)
	assert.Equal(t, strings.TrimSpace(text), strings.TrimSpace(matches[0].Metadata.Text))
}

func TestOrchestrator_BadFileDoesNotAbortSiblings(t *testing.T) {
	o, _ := newTestOrchestrator(t)
	ctx := context.Background()

	files := []File{
		{Name: "good.txt", ContentType: "text/plain", Data: []byte("a perfectly fine document.")},
		{Name: "bad.bin", ContentType: "image/png", Data: []byte{0x89, 0x50}},
		{Name: "also-good.txt", ContentType: "text/plain", Data: []byte("another fine document.")},
	}

	report, err := o.Ingest(ctx, testTenant, files)
	require.NoError(t, err)

	assert.Equal(t, core.ReportMessageSomeFailed, report.Message)
	assert.Equal(t, 2, report.NumFilesSucceeded)
	assert.Equal(t, 1, report.NumFilesFailed)
	assert.ElementsMatch(t, []string{"good.txt", "also-good.txt"}, report.SuccessfulFileNames)
	assert.Contains(t, report.FailedFileNames, "bad.bin")
}

func TestOrchestrator_FileTooLarge(t *testing.T) {
	o, _ := newTestOrchestrator(t, WithLimits(10, 100))
	ctx := context.Background()

	files := []File{
		{Name: "big.txt", ContentType: "text/plain", Data: []byte("well over ten bytes of text")},
	}

	report, err := o.Ingest(ctx, testTenant, files)
	require.NoError(t, err)

	assert.Equal(t, 1, report.NumFilesFailed)
	assert.Contains(t, report.FailedFileNames["big.txt"], ErrFileTooLarge.Error())
}

func TestOrchestrator_UploadTooLarge(t *testing.T) {
	o, _ := newTestOrchestrator(t, WithLimits(100, 30))
	ctx := context.Background()

	files := []File{
		{Name: "a.txt", ContentType: "text/plain", Data: []byte("twenty bytes of text")},
		{Name: "b.txt", ContentType: "text/plain", Data: []byte("twenty bytes of text")},
	}

	_, err := o.Ingest(ctx, testTenant, files)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestOrchestrator_InvalidTenant(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	_, err := o.Ingest(context.Background(), "not-a-uuid", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidTenantID)
}

func TestOrchestrator_EmptyFileFails(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	report, err := o.Ingest(context.Background(), testTenant, []File{
		{Name: "empty.txt", ContentType: "text/plain", Data: []byte("   \n ")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.NumFilesFailed)
	assert.Contains(t, report.FailedFileNames["empty.txt"], chunk.ErrEmptyInput.Error())
}

func TestOrchestrator_ManyFilesConcurrently(t *testing.T) {
	o, _ := newTestOrchestrator(t, WithPoolSize(4))
	ctx := context.Background()

	var files []File
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt"} {
		files = append(files, File{
			Name:        name,
			ContentType: "text/plain",
			Data:        []byte("contents for " + name),
		})
	}

	report, err := o.Ingest(ctx, testTenant, files)
	require.NoError(t, err)
	assert.Equal(t, len(files), report.NumFilesSucceeded)
	assert.Equal(t, 0, report.NumFilesFailed)
}

func TestNewOrchestrator_RequiredDependencies(t *testing.T) {
	chunker, err := chunk.NewChunker()
	require.NoError(t, err)

	store, err := local.NewStore("")
	require.NoError(t, err)
	defer store.Close()

	_, err = NewOrchestrator(nil, mock.NewEmbedder(), store, extract.NewDispatcher())
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewOrchestrator(chunker, nil, store, extract.NewDispatcher())
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewOrchestrator(chunker, mock.NewEmbedder(), nil, extract.NewDispatcher())
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewOrchestrator(chunker, mock.NewEmbedder(), store, nil)
	assert.ErrorIs(t, err, ErrExtractorRequired)
}
