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


package prompt

import (
	"fmt"
	"strings"
)

const (
	// DefaultTokenLimit is the prompt token budget.
	DefaultTokenLimit = 3750

	// Separator joins successive contexts inside the prompt.
	Separator = "\n\n---\n\n"

	promptHeader   = "Answer the question based on the context below.\n\nContext:\n"
	promptQuestion = "\n\nQuestion: "
	promptAnswer   = "\nAnswer:"
)

// Builder assembles prompts from ranked contexts under a token budget.
type Builder struct {
	counter    TokenCounter
	tokenLimit int
}

// Option configures a Builder.
type Option func(*Builder) error

// WithTokenLimit overrides DefaultTokenLimit.
func WithTokenLimit(limit int) Option {
	return func(b *Builder) error {
		if limit <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidTokenLimit, limit)
		}
		b.tokenLimit = limit
		return nil
	}
}

// NewBuilder creates a Builder using the given token counter.
func NewBuilder(counter TokenCounter, opts ...Option) (*Builder, error) {
	if counter == nil {
		var err error
		counter, err = NewTiktokenCounter()
		if err != nil {
			return nil, err
		}
	}

	b := &Builder{counter: counter, tokenLimit: DefaultTokenLimit}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build assembles a prompt from contexts ranked by descending relevance.
// Contexts are included greedily until one would push the running token
// count to the limit or beyond; that context and all following ones are
// dropped. A prompt with zero contexts is valid. Build fails only when
// the question alone exceeds the budget.
func (b *Builder) Build(contexts []string, question string) (string, error) {
	used := b.counter.CountTokens(question)
	if used > b.tokenLimit {
		return "", fmt.Errorf("%w: question is %d tokens, limit %d",
			ErrQuestionTooLarge, used, b.tokenLimit)
	}

	var included []string
	for _, context := range contexts {
		cost := b.counter.CountTokens(context)
		if used+cost >= b.tokenLimit {
			break
		}
		used += cost
		included = append(included, context)
	}

	return promptHeader + strings.Join(included, Separator) + promptQuestion + question + promptAnswer, nil
}
