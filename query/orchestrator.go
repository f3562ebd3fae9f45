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


package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kristianmandrup/vault-ai/ai"
	"github.com/kristianmandrup/vault-ai/core"
	"github.com/kristianmandrup/vault-ai/prompt"
	"github.com/kristianmandrup/vault-ai/vectordb"
)

const (
	// DefaultTopK is the number of matches retrieved per question.
	DefaultTopK = 4

	// DefaultTimeout bounds one question end to end.
	DefaultTimeout = time.Minute
)

// Orchestrator answers questions against a tenant's ingested documents.
type Orchestrator struct {
	embedder  ai.Embedder
	completer ai.Completer
	store     vectordb.Store
	builder   *prompt.Builder

	topK    int
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithTopK sets how many matches are retrieved per question.
// Default is DefaultTopK.
func WithTopK(topK int) Option {
	return func(o *Orchestrator) error {
		if topK > 0 {
			o.topK = topK
		}
		return nil
	}
}

// WithTimeout bounds the total time spent on one question.
// Default is DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) error {
		if timeout > 0 {
			o.timeout = timeout
		}
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
		o.logger = logger.With("component", "query")
		return nil
	}
}

// NewOrchestrator creates a query orchestrator.
func NewOrchestrator(
	embedder ai.Embedder,
	completer ai.Completer,
	store vectordb.Store,
	builder *prompt.Builder,
	opts ...Option,
) (*Orchestrator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if builder == nil {
		var err error
		builder, err = prompt.NewBuilder(nil)
		if err != nil {
			return nil, err
		}
	}

	o := &Orchestrator{
		embedder:  embedder,
		completer: completer,
		store:     store,
		builder:   builder,
		topK:      DefaultTopK,
		timeout:   DefaultTimeout,
		logger:    slog.Default().With("component", "query"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			return nil, optErr
		}
	}
	return o, nil
}

// Ask runs the full question pipeline for one tenant. Any stage failure
// aborts the request; no partial answer is returned.
func (o *Orchestrator) Ask(ctx context.Context, tenantID, question string) (*core.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if err := core.ValidateTenantID(tenantID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	queryVector, err := o.embedder.EmbedText(ctx, question)
	if err != nil {
		return nil, o.wrapDeadline(fmt.Errorf("embed question: %w", err))
	}

	matches, err := o.store.Retrieve(ctx, queryVector, o.topK, tenantID)
	if err != nil {
		return nil, o.wrapDeadline(fmt.Errorf("retrieve matches: %w", err))
	}

	contexts := make([]string, len(matches))
	snippets := make([]core.Snippet, len(matches))
	for i, match := range matches {
		contexts[i] = match.Metadata.Text
		snippets[i] = core.Snippet{Text: match.Metadata.Text, Title: match.Metadata.Title}
	}

	assembled, err := o.builder.Build(contexts, question)
	if err != nil {
		return nil, err
	}

	answer, tokens, err := o.completer.Complete(ctx, assembled)
	if err != nil {
		return nil, o.wrapDeadline(fmt.Errorf("complete prompt: %w", err))
	}

	o.logger.Debug("question answered",
		"namespace", tenantID,
		"matches", len(matches),
		"tokens", tokens)

	return &core.Answer{
		Answer:  strings.TrimSpace(answer),
		Context: snippets,
		Tokens:  tokens,
	}, nil
}

// wrapDeadline tags errors caused by the request deadline so callers can
// distinguish timeouts from stage failures.
func (o *Orchestrator) wrapDeadline(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrDeadlineExceeded, err)
	}
	return err
}
