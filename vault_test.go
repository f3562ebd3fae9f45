package vaultai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristianmandrup/vault-ai/ai/mock"
	"github.com/kristianmandrup/vault-ai/config"
	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/ingest"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

const testTenant = "7d444840-9dc0-11d1-b245-5ffdce74fad2"

// wordCounter keeps the prompt builder offline in tests.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func newTestVault(t *testing.T) (*Vault, *mock.Provider) {
	t.Helper()

	provider := mock.NewProvider()
	v, err := New(config.Default(),
		WithProvider(provider),
		WithTokenCounter(wordCounter{}))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, v.Close())
	})
	return v, provider
}

func TestVault_IngestThenAsk(t *testing.T) {
	v, provider := newTestVault(t)
	ctx := context.Background()

	files := []ingest.File{
		{Name: "sky.txt", ContentType: "text/plain", Data: []byte("The sky is blue.")},
		{Name: "grass.txt", ContentType: "text/plain", Data: []byte("Grass is green.")},
	}
	report, err := v.Ingest(ctx, testTenant, files)
	require.NoError(t, err)
	assert.Equal(t, core.ReportMessageAllSucceeded, report.Message)
	assert.Equal(t, 2, report.NumFilesSucceeded)

	provider.MockCompleter.Answer = "Blue."
	provider.MockCompleter.Tokens = 7

	answer, err := v.Ask(ctx, testTenant, "The sky is blue.")
	require.NoError(t, err)
	assert.Equal(t, "Blue.", answer.Answer)
	assert.Equal(t, 7, answer.Tokens)
	require.NotEmpty(t, answer.Context)
	assert.Equal(t, "The sky is blue.", answer.Context[0].Text)
	assert.Contains(t, provider.MockCompleter.LastPrompt(), "The sky is blue.")
}

func TestVault_TenantsAreIsolated(t *testing.T) {
	v, provider := newTestVault(t)
	ctx := context.Background()

	other := "11111111-2222-3333-4444-555555555555"

	_, err := v.Ingest(ctx, testTenant, []ingest.File{
		{Name: "secret.txt", ContentType: "text/plain", Data: []byte("tenant-a secrets.")},
	})
	require.NoError(t, err)

	answer, err := v.Ask(ctx, other, "what secrets?")
	require.NoError(t, err)
	assert.Empty(t, answer.Context)
	assert.NotContains(t, provider.MockCompleter.LastPrompt(), "tenant-a secrets.")
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Backend = vectordb.Kind("dynamo")

	_, err := New(cfg, WithProvider(mock.NewProvider()), WithTokenCounter(wordCounter{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, vectordb.ErrUnknownBackend)
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	v, err := New(nil, WithProvider(mock.NewProvider()), WithTokenCounter(wordCounter{}))
	require.NoError(t, err)
	require.NoError(t, v.Close())
}
