package storage

import (
	"testing"
	"time"

	"github.com/empirelabs/chad/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSerialization(t *testing.T) {
	t.Run("round trip preserves order and roles", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		messages := []core.Message{
			{Role: core.RoleSystem, Content: "You are Chad."},
			{Role: core.RoleUser, Content: "who are you"},
			{Role: core.RoleAssistant, Content: "I'm Chad — Empire Labs' AI operator."},
		}

		data := MarshalSession(messages, now)
		got, updatedAt, err := UnmarshalSession(data)
		require.NoError(t, err)
		assert.Equal(t, messages, got)
		assert.True(t, now.Equal(updatedAt))
	})

	t.Run("empty history", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Microsecond)
		data := MarshalSession(nil, now)
		got, _, err := UnmarshalSession(data)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unicode and newlines survive", func(t *testing.T) {
		messages := []core.Message{
			{Role: core.RoleUser, Content: "grants & R&D — café?\nsecond line\ttab"},
		}
		data := MarshalSession(messages, time.Now().UTC())
		got, _, err := UnmarshalSession(data)
		require.NoError(t, err)
		assert.Equal(t, messages[0].Content, got[0].Content)
	})

	t.Run("truncated data fails", func(t *testing.T) {
		data := MarshalSession([]core.Message{{Role: core.RoleUser, Content: "hello world"}}, time.Now().UTC())
		_, _, err := UnmarshalSession(data[:len(data)/2])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}

func TestChunkSerialization(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		chunk := &core.KnowledgeChunk{
			Id:         core.IDFromContent("services overview"),
			Text:       "Empire Labs offers automation, dashboards and grant support.",
			Source:     "kb/services.md",
			Vector:     []float32{0.1, -0.5, 0.33, 0},
			InsertedAt: time.Now().UTC().Truncate(time.Microsecond),
		}

		got, err := UnmarshalChunk(MarshalChunk(chunk))
		require.NoError(t, err)
		assert.Equal(t, chunk.Id, got.Id)
		assert.Equal(t, chunk.Text, got.Text)
		assert.Equal(t, chunk.Source, got.Source)
		assert.Equal(t, chunk.Vector, got.Vector)
		assert.True(t, chunk.InsertedAt.Equal(got.InsertedAt))
	})

	t.Run("empty vector", func(t *testing.T) {
		chunk := &core.KnowledgeChunk{Id: 7, Text: "no embedding yet", Source: "kb"}
		got, err := UnmarshalChunk(MarshalChunk(chunk))
		require.NoError(t, err)
		assert.Empty(t, got.Vector)
	})

	t.Run("truncated data fails", func(t *testing.T) {
		chunk := &core.KnowledgeChunk{Id: 9, Text: "some chunk text", Vector: []float32{1, 2, 3}}
		data := MarshalChunk(chunk)
		_, err := UnmarshalChunk(data[:3])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
