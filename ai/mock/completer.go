package mock

import "context"

// MockCompleter is a test double for ai.Completer.
// It records every prompt it receives and returns a canned answer.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	CompleteFunc func(ctx context.Context, prompt string) (string, error)

	// Answer is returned when CompleteFunc is nil. Empty means a
	// fixed placeholder response.
	Answer string

	prompts []string
}

// NewMockCompleter creates a mock completer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{}
}

// Complete records the prompt and returns the configured answer.
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}

	if m.Answer != "" {
		return m.Answer, nil
	}
	return "mock answer", nil
}

// Prompts returns every prompt passed to Complete, in call order.
func (m *MockCompleter) Prompts() []string {
	return m.prompts
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return len(m.prompts)
}

// Reset clears recorded prompts and injected behavior.
func (m *MockCompleter) Reset() {
	m.prompts = nil
	m.CompleteFunc = nil
	m.Answer = ""
}
