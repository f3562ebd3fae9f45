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


package openai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kristianmandrup/vault-ai/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Instructions is the fixed system instruction sent with every completion.
const Instructions = "You are a helpful assistant answering questions based on the context provided."

// Sampling parameters for answer generation.
const (
	temperature      = 0.7
	topP             = 1.0
	frequencyPenalty = 0.0
	presencePenalty  = 0.6
	maxTokens        = 512
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Completer = (*Completer)(nil)

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client: client,
		logger: slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete sends the assembled prompt with the fixed system instruction and
// returns the generated answer with the total token usage of the call.
func (c *Completer) Complete(ctx context.Context, prompt string) (string, int, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(Instructions)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	response, err := c.client.GenerateContent(ctx, content,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
		llms.WithTopP(topP),
		llms.WithFrequencyPenalty(frequencyPenalty),
		llms.WithPresencePenalty(presencePenalty),
		llms.WithStopWords([]string{"Human:", "AI:"}),
	)
	if err != nil {
		c.logger.Error("completion call failed", "err", err)
		return "", 0, fmt.Errorf("%w: %w", ai.ErrCompletionFailed, err)
	}

	if len(response.Choices) == 0 {
		return "", 0, fmt.Errorf("%w: model returned no choices", ai.ErrCompletionFailed)
	}

	choice := response.Choices[0]
	return choice.Content, totalTokens(choice.GenerationInfo), nil
}

// totalTokens pulls the usage counter out of the provider-specific
// generation info. Zero when the backend does not report usage.
func totalTokens(info map[string]any) int {
	if info == nil {
		return 0
	}
	if v, ok := info["TotalTokens"].(int); ok {
		return v
	}
	return 0
}
