package mock

import (
	"context"

	"github.com/empirelabs/chad/ai"
	"github.com/empirelabs/chad/core"
)

// MockCompleter is a test double for ai.Completer.
// It records the message lists it was invoked with and allows custom
// behavior injection via a function field.
type MockCompleter struct {
	// CompleteFunc is called by Complete if set.
	// If nil, returns Reply (or a fixed default).
	CompleteFunc func(ctx context.Context, messages []core.Message, opts ai.CompletionOptions) (string, error)

	// Reply is the canned reply returned when CompleteFunc is nil.
	Reply string

	// Err, when set, is returned from Complete (wrapped in *ai.ProviderError).
	Err error

	callCount int
	calls     [][]core.Message
}

var _ ai.Completer = (*MockCompleter)(nil)

// NewMockCompleter creates a mock completer with a fixed canned reply.
// Note: Returns concrete type to allow test assertions.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{Reply: "mock reply"}
}

// Complete records the call and returns the configured behavior.
func (m *MockCompleter) Complete(ctx context.Context, messages []core.Message, opts ai.CompletionOptions) (string, error) {
	m.callCount++
	recorded := make([]core.Message, len(messages))
	copy(recorded, messages)
	m.calls = append(m.calls, recorded)

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages, opts)
	}
	if m.Err != nil {
		return "", &ai.ProviderError{Provider: "mock", Err: m.Err}
	}
	return m.Reply, nil
}

// Model returns a fixed mock model identifier.
func (m *MockCompleter) Model() string {
	return "mock-model"
}

// CallCount returns the number of times Complete was called.
func (m *MockCompleter) CallCount() int {
	return m.callCount
}

// LastCall returns the message list from the most recent invocation,
// or nil if Complete was never called.
func (m *MockCompleter) LastCall() []core.Message {
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

// Reset clears recorded calls and injected behavior.
func (m *MockCompleter) Reset() {
	m.callCount = 0
	m.calls = nil
	m.CompleteFunc = nil
	m.Err = nil
	m.Reply = "mock reply"
}
