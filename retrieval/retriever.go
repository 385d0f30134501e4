package retrieval

import (
	"context"
	"log/slog"

	"github.com/empirelabs/chad/ai"
	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/storage"
)

// Retriever queries the knowledge index for the chunks most relevant to
// a text query. It fails open: retrieval is an enhancement to the chat
// pipeline, never a requirement, so every internal failure degrades to
// an empty result instead of propagating.
type Retriever struct {
	embedder ai.Embedder
	chunks   storage.ChunkStore
	topK     int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets how many chunks a query returns.
// Default is 6.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k < 1 {
			return ErrInvalidTopK
		}
		r.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever over the given embedder and
// chunk store.
func NewRetriever(embedder ai.Embedder, chunks storage.ChunkStore, opts ...Option) (*Retriever, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if chunks == nil {
		return nil, ErrChunkStoreRequired
	}

	r := &Retriever{
		embedder: embedder,
		chunks:   chunks,
		topK:     6,
		logger:   slog.Default().With("component", "retriever"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Retrieve returns up to topK knowledge chunks relevant to the query,
// ordered by decreasing similarity. Any failure (embedding service
// unreachable, index absent, malformed records) yields an empty slice.
func (r *Retriever) Retrieve(ctx context.Context, query string) []core.RetrievedChunk {
	vector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Warn("embedding failed, degrading to empty context", "err", err)
		return nil
	}
	if len(vector) == 0 {
		r.logger.Warn("embedder returned empty vector, degrading to empty context")
		return nil
	}

	matches, err := r.chunks.FindSimilar(ctx, vector, r.topK)
	if err != nil {
		r.logger.Warn("index query failed, degrading to empty context", "err", err)
		return nil
	}

	chunks := make([]core.RetrievedChunk, 0, len(matches))
	for _, match := range matches {
		chunks = append(chunks, *match)
	}
	return chunks
}
