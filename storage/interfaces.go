package storage

import (
	"context"

	"github.com/empirelabs/chad/core"
)

// SessionStore persists conversation histories keyed by session identifier.
// Implementations must be thread-safe; concurrent saves for the same
// identifier resolve last-write-wins, and loads must never observe a
// partially written record.
type SessionStore interface {
	// Load retrieves the message history for a session.
	// Returns an empty slice (not an error) for an unknown identifier.
	Load(ctx context.Context, sessionID string) ([]core.Message, error)

	// Save stores the full message history for a session, replacing any
	// prior record. Creates the record if absent. The write is atomic at
	// record granularity.
	Save(ctx context.Context, sessionID string, messages []core.Message) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkStore holds the indexed knowledge chunks queried during retrieval
// augmentation. Written by the offline ingestion pipeline, read by the
// gateway.
type ChunkStore interface {
	// AddChunks adds one or more knowledge chunks to the index.
	// Chunk IDs are content-derived; re-adding an existing ID overwrites it.
	// Sets InsertedAt if not already set.
	AddChunks(ctx context.Context, chunks ...*core.KnowledgeChunk) error

	// HasChunk reports whether a chunk with the given ID is already indexed.
	HasChunk(ctx context.Context, id core.ID) (bool, error)

	// FindSimilar returns up to limit chunks ordered by decreasing
	// similarity to the given vector.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.RetrievedChunk, error)

	// CountChunks returns the number of indexed chunks.
	CountChunks(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
