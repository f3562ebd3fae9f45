package mock

import "context"

// Completer is a test double for ai.Completer. It records every prompt it
// receives and returns a canned answer.
type Completer struct {
	// CompleteFunc is called by Complete if set.
	CompleteFunc func(ctx context.Context, prompt string) (string, int, error)

	// Answer and Tokens are returned when CompleteFunc is nil.
	Answer string
	Tokens int

	// Prompts holds every prompt passed to Complete, in call order.
	Prompts []string
}

// NewCompleter creates a mock completer returning answer.
func NewCompleter(answer string, tokens int) *Completer {
	return &Completer{Answer: answer, Tokens: tokens}
}

// Complete records the prompt and returns the canned response.
func (m *Completer) Complete(ctx context.Context, prompt string) (string, int, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return m.Answer, m.Tokens, nil
}

// LastPrompt returns the most recent prompt, or "" if none were made.
func (m *Completer) LastPrompt() string {
	if len(m.Prompts) == 0 {
		return ""
	}
	return m.Prompts[len(m.Prompts)-1]
}
