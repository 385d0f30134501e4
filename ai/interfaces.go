package ai

import (
	"context"

	"github.com/empirelabs/chad/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// CompletionOptions carries per-call sampling parameters.
type CompletionOptions struct {
	// Temperature controls sampling randomness. Zero is deterministic.
	Temperature float64

	// MaxTokens caps the length of the generated reply.
	MaxTokens int
}

// Completer produces a chat completion over a full message history.
// Implementations must be thread-safe for concurrent use, must never
// return an empty reply (an empty model answer is replaced with
// FallbackReply), and wrap upstream failures in *ProviderError.
type Completer interface {
	// Complete invokes the backing model with the full message list and
	// returns the assistant's reply text.
	Complete(ctx context.Context, messages []core.Message, opts CompletionOptions) (string, error)

	// Model returns the configured model identifier, for diagnostics.
	Model() string
}

// FallbackReply is substituted whenever a backend returns an empty
// completion, so the gateway never forwards an empty assistant turn.
const FallbackReply = "Understood. What outcome are you aiming for?"
