package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/storage"
)

// ChunkStore implements storage.ChunkStore for BadgerDB.
type ChunkStore struct {
	backend *Backend
}

var _ storage.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore creates a new ChunkStore on the given backend.
func NewChunkStore(backend *Backend) *ChunkStore {
	return &ChunkStore{backend: backend}
}

// AddChunks adds one or more knowledge chunks to the index.
func (s *ChunkStore) AddChunks(ctx context.Context, chunks ...*core.KnowledgeChunk) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateChunk(chunk); err != nil {
				return err
			}
			if chunk.Id == 0 {
				chunk.Id = core.IDFromContent(chunk.Text)
			}
			if chunk.InsertedAt.IsZero() {
				chunk.InsertedAt = time.Now().UTC()
			}
			if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// HasChunk reports whether a chunk with the given ID is already indexed.
func (s *ChunkStore) HasChunk(ctx context.Context, id core.ID) (bool, error) {
	var found bool
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get(makeChunkKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		found = true
		return nil
	}, false)
	return found, err
}

// FindSimilar scans the indexed chunks and returns up to limit results
// ordered by decreasing similarity to the given vector. Chunks without
// embeddings are skipped. Source defaults to "kb" when the chunk carries
// no provenance label.
func (s *ChunkStore) FindSimilar(ctx context.Context, vector []float32, limit int) ([]*core.RetrievedChunk, error) {
	if limit < 1 {
		return nil, storage.ErrInvalidQuery
	}

	var results []*core.RetrievedChunk

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.KnowledgeChunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}

			source := chunk.Source
			if source == "" {
				source = "kb"
			}

			// Cosine similarity (dot product for normalized vectors)
			results = append(results, &core.RetrievedChunk{
				ID:     chunk.Id,
				Text:   chunk.Text,
				Source: source,
				Score:  dotProduct(vector, chunk.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.RetrievedChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountChunks returns the number of indexed chunks.
func (s *ChunkStore) CountChunks(ctx context.Context) (int, error) {
	var count int
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Close is a no-op; the backend owns the database handle.
func (s *ChunkStore) Close() error {
	return nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
