package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordCounter is a deterministic stand-in for the BPE tokenizer.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func newTestBuilder(t *testing.T, limit int) *Builder {
	t.Helper()
	b, err := NewBuilder(wordCounter{}, WithTokenLimit(limit))
	require.NoError(t, err)
	return b
}

func TestBuilder_AllContextsFit(t *testing.T) {
	b := newTestBuilder(t, 100)

	prompt, err := b.Build([]string{"alpha beta", "gamma delta"}, "what is alpha?")
	require.NoError(t, err)

	assert.Contains(t, prompt, "alpha beta")
	assert.Contains(t, prompt, "gamma delta")
	assert.Contains(t, prompt, "alpha beta"+Separator+"gamma delta")
	assert.True(t, strings.HasPrefix(prompt, "Answer the question based on the context below.\n\nContext:\n"))
	assert.Contains(t, prompt, "\n\nQuestion: what is alpha?")
	assert.True(t, strings.HasSuffix(prompt, "\nAnswer:"))
}

func TestBuilder_DropsContextsOverBudget(t *testing.T) {
	// Question is 2 tokens, each context 3. The third context would reach
	// the limit and is dropped with everything after it.
	b := newTestBuilder(t, 9)

	contexts := []string{
		"one two three",
		"four five six",
		"seven eight nine",
		"ten eleven twelve",
	}
	prompt, err := b.Build(contexts, "which numbers?")
	require.NoError(t, err)

	assert.Contains(t, prompt, "one two three")
	assert.Contains(t, prompt, "four five six")
	assert.NotContains(t, prompt, "seven eight nine")
	assert.NotContains(t, prompt, "ten eleven twelve")
}

func TestBuilder_SeparatorDoesNotCountAgainstBudget(t *testing.T) {
	// 2 question tokens plus two 3-token contexts is 8, under a limit of
	// 10; the joining separator costs nothing, so both contexts fit.
	b := newTestBuilder(t, 10)

	prompt, err := b.Build([]string{"one two three", "four five six"}, "which numbers?")
	require.NoError(t, err)

	assert.Contains(t, prompt, "one two three")
	assert.Contains(t, prompt, "four five six")
}

func TestBuilder_ZeroContextsFit(t *testing.T) {
	b := newTestBuilder(t, 5)

	prompt, err := b.Build([]string{strings.Repeat("word ", 50)}, "short question here")
	require.NoError(t, err)

	assert.Equal(t,
		"Answer the question based on the context below.\n\nContext:\n\n\nQuestion: short question here\nAnswer:",
		prompt)
}

func TestBuilder_QuestionTooLarge(t *testing.T) {
	b := newTestBuilder(t, 3)

	_, err := b.Build(nil, "this question has six whole tokens")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrQuestionTooLarge)
}

func TestBuilder_NoContexts(t *testing.T) {
	b := newTestBuilder(t, 50)

	prompt, err := b.Build(nil, "anything there?")
	require.NoError(t, err)
	assert.Contains(t, prompt, "Question: anything there?")
}

func TestBuilder_InvalidTokenLimit(t *testing.T) {
	_, err := NewBuilder(wordCounter{}, WithTokenLimit(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTokenLimit)
}
