package badger

import (
	"context"
	"testing"

	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkStore_AddAndHas(t *testing.T) {
	_, chunks, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	chunk := &core.KnowledgeChunk{Text: "Empire Labs does automation.", Source: "kb/services.md"}
	require.NoError(t, chunks.AddChunks(ctx, chunk))
	assert.NotZero(t, chunk.Id)
	assert.False(t, chunk.InsertedAt.IsZero())

	found, err := chunks.HasChunk(ctx, chunk.Id)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = chunks.HasChunk(ctx, core.IDFromContent("absent"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestChunkStore_AddRejectsEmptyText(t *testing.T) {
	_, chunks, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	err = chunks.AddChunks(context.Background(), &core.KnowledgeChunk{Source: "kb"})
	assert.ErrorIs(t, err, core.ErrInvalidChunk)
}

func TestChunkStore_FindSimilar(t *testing.T) {
	_, chunks, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, chunks.AddChunks(ctx,
		&core.KnowledgeChunk{Text: "about automation", Source: "kb/a.md", Vector: []float32{0.9, 0.1, 0}},
		&core.KnowledgeChunk{Text: "about dashboards", Source: "kb/b.md", Vector: []float32{0.5, 0.5, 0}},
		&core.KnowledgeChunk{Text: "about grants", Source: "kb/c.md", Vector: []float32{0, 0.1, 0.9}},
		&core.KnowledgeChunk{Text: "not embedded yet"},
	))

	t.Run("ordered by decreasing similarity", func(t *testing.T) {
		results, err := chunks.FindSimilar(ctx, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, results, 3) // unembedded chunk skipped
		assert.Equal(t, "about automation", results[0].Text)
		assert.Equal(t, "about dashboards", results[1].Text)
		assert.True(t, results[0].Score >= results[1].Score)
		assert.True(t, results[1].Score >= results[2].Score)
	})

	t.Run("limit respected", func(t *testing.T) {
		results, err := chunks.FindSimilar(ctx, []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("invalid limit", func(t *testing.T) {
		_, err := chunks.FindSimilar(ctx, []float32{1, 0, 0}, 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})

	t.Run("missing source defaults to kb", func(t *testing.T) {
		require.NoError(t, chunks.AddChunks(ctx,
			&core.KnowledgeChunk{Text: "orphan chunk", Vector: []float32{1, 0, 0}}))
		results, err := chunks.FindSimilar(ctx, []float32{1, 0, 0}, 1)
		require.NoError(t, err)
		assert.Equal(t, "kb", results[0].Source)
	})
}

func TestChunkStore_Count(t *testing.T) {
	_, chunks, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	count, err := chunks.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, chunks.AddChunks(ctx,
		&core.KnowledgeChunk{Text: "one"},
		&core.KnowledgeChunk{Text: "two"},
	))

	count, err = chunks.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkStore_ReaddOverwrites(t *testing.T) {
	_, chunks, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	chunk := &core.KnowledgeChunk{Text: "same text", Vector: []float32{1, 0}}
	require.NoError(t, chunks.AddChunks(ctx, chunk))
	require.NoError(t, chunks.AddChunks(ctx, &core.KnowledgeChunk{Text: "same text", Vector: []float32{0, 1}}))

	count, err := chunks.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
