package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/empirelabs/chad/ai/mock"
	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetriever(t *testing.T) {
	_, chunks, backend, err := badger.NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	embedder := mock.NewMockEmbedder()

	t.Run("valid configuration", func(t *testing.T) {
		r, err := NewRetriever(embedder, chunks)
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRetriever(nil, chunks)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("nil chunk store", func(t *testing.T) {
		_, err := NewRetriever(embedder, nil)
		assert.Equal(t, ErrChunkStoreRequired, err)
	})

	t.Run("invalid top-k", func(t *testing.T) {
		_, err := NewRetriever(embedder, chunks, WithTopK(0))
		assert.Equal(t, ErrInvalidTopK, err)
	})
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns most similar chunks", func(t *testing.T) {
		_, chunks, backend, err := badger.NewMemoryStores()
		require.NoError(t, err)
		defer backend.Close()

		require.NoError(t, chunks.AddChunks(ctx,
			&core.KnowledgeChunk{Text: "automation services", Source: "kb/a.md", Vector: []float32{1, 0, 0}},
			&core.KnowledgeChunk{Text: "grant support", Source: "kb/b.md", Vector: []float32{0, 1, 0}},
		))

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return []float32{1, 0, 0}, nil
		}

		r, err := NewRetriever(embedder, chunks, WithTopK(1))
		require.NoError(t, err)

		got := r.Retrieve(ctx, "tell me about automation")
		require.Len(t, got, 1)
		assert.Equal(t, "automation services", got[0].Text)
		assert.Equal(t, "kb/a.md", got[0].Source)
	})

	t.Run("embedding failure degrades to empty", func(t *testing.T) {
		_, chunks, backend, err := badger.NewMemoryStores()
		require.NoError(t, err)
		defer backend.Close()

		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("embedding service unreachable")
		}

		r, err := NewRetriever(embedder, chunks)
		require.NoError(t, err)
		assert.Empty(t, r.Retrieve(ctx, "anything"))
	})

	t.Run("empty index degrades to empty", func(t *testing.T) {
		_, chunks, backend, err := badger.NewMemoryStores()
		require.NoError(t, err)
		defer backend.Close()

		r, err := NewRetriever(mock.NewMockEmbedder(), chunks)
		require.NoError(t, err)
		assert.Empty(t, r.Retrieve(ctx, "anything"))
	})

	t.Run("closed backend degrades to empty", func(t *testing.T) {
		_, chunks, backend, err := badger.NewMemoryStores()
		require.NoError(t, err)
		require.NoError(t, backend.Close())

		r, err := NewRetriever(mock.NewMockEmbedder(), chunks)
		require.NoError(t, err)
		assert.Empty(t, r.Retrieve(ctx, "anything"))
	})
}

func TestFormatContext(t *testing.T) {
	t.Run("empty renders sentinel", func(t *testing.T) {
		assert.Equal(t, EmptyContext, FormatContext(nil))
	})

	t.Run("chunks prefixed with source", func(t *testing.T) {
		out := FormatContext([]core.RetrievedChunk{
			{Text: "  Empire Labs builds dashboards.  ", Source: "kb/services.md"},
			{Text: "R&D grant support available.", Source: "kb/grants.md"},
		})
		assert.Equal(t,
			"[source: kb/services.md]\nEmpire Labs builds dashboards.\n\n[source: kb/grants.md]\nR&D grant support available.",
			out)
	})

	t.Run("missing source defaults to kb", func(t *testing.T) {
		out := FormatContext([]core.RetrievedChunk{{Text: "orphan"}})
		assert.Contains(t, out, "[source: kb]")
	})
}

func TestSources(t *testing.T) {
	sources := Sources([]core.RetrievedChunk{
		{Text: "a", Source: "kb/a.md"},
		{Text: "b", Source: "kb/b.md"},
		{Text: "c", Source: "kb/a.md"},
		{Text: "d"},
	})
	assert.Equal(t, []string{"kb/a.md", "kb/b.md", "kb"}, sources)
}
