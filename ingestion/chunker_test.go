package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkText(t *testing.T) {
	t.Run("empty and whitespace-only input yield nothing", func(t *testing.T) {
		assert.Nil(t, ChunkText("", 1200, 150))
		assert.Nil(t, ChunkText("   \n\t  ", 1200, 150))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := ChunkText("  hello world  ", 1200, 150)
		assert.Equal(t, []string{"hello world"}, chunks)
	})

	t.Run("long text splits with overlap", func(t *testing.T) {
		text := strings.Repeat("a", 250)
		chunks := ChunkText(text, 100, 20)

		assert.Len(t, chunks, 4) // steps of 80: 0, 80, 160, 240
		for _, c := range chunks[:3] {
			assert.Len(t, c, 100)
		}
		assert.Len(t, chunks[3], 10)
	})

	t.Run("consecutive chunks share the overlap region", func(t *testing.T) {
		var sb strings.Builder
		for i := 0; i < 30; i++ {
			sb.WriteString("0123456789")
		}
		chunks := ChunkText(sb.String(), 100, 20)

		for i := 1; i < len(chunks); i++ {
			tail := chunks[i-1][len(chunks[i-1])-20:]
			assert.Equal(t, tail, chunks[i][:20])
		}
	})

	t.Run("degenerate overlap is ignored", func(t *testing.T) {
		text := strings.Repeat("b", 300)
		chunks := ChunkText(text, 100, 100) // would never advance
		assert.Len(t, chunks, 3)
	})

	t.Run("splits on runes not bytes", func(t *testing.T) {
		text := strings.Repeat("é", 150)
		chunks := ChunkText(text, 100, 0)

		assert.Len(t, chunks, 2)
		assert.Equal(t, 100, len([]rune(chunks[0])))
		assert.Equal(t, 50, len([]rune(chunks[1])))
	})
}
