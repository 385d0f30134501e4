package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/empirelabs/chad/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_LoadUnknown(t *testing.T) {
	sessions, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	history, err := sessions.Load(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSessionStore_SaveLoad(t *testing.T) {
	sessions, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "You are Chad."},
		{Role: core.RoleUser, Content: "what services do you offer?"},
		{Role: core.RoleAssistant, Content: "Automation, dashboards, grant support."},
	}

	require.NoError(t, sessions.Save(ctx, "s1", messages))

	got, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, messages, got)
}

func TestSessionStore_SaveReplaces(t *testing.T) {
	sessions, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	first := []core.Message{{Role: core.RoleUser, Content: "first"}}
	second := []core.Message{
		{Role: core.RoleUser, Content: "first"},
		{Role: core.RoleAssistant, Content: "second"},
	}

	require.NoError(t, sessions.Save(ctx, "s1", first))
	require.NoError(t, sessions.Save(ctx, "s1", second))

	got, err := sessions.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestSessionStore_IsolatedSessions(t *testing.T) {
	sessions, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, "a", []core.Message{{Role: core.RoleUser, Content: "for a"}}))
	require.NoError(t, sessions.Save(ctx, "b", []core.Message{{Role: core.RoleUser, Content: "for b"}}))

	gotA, err := sessions.Load(ctx, "a")
	require.NoError(t, err)
	gotB, err := sessions.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "for a", gotA[0].Content)
	assert.Equal(t, "for b", gotB[0].Content)
}

func TestSessionStore_ConcurrentSaves(t *testing.T) {
	sessions, _, backend, err := NewMemoryStores()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			msgs := []core.Message{
				{Role: core.RoleSystem, Content: "You are Chad."},
				{Role: core.RoleUser, Content: fmt.Sprintf("writer %d", i)},
			}
			assert.NoError(t, sessions.Save(ctx, "shared", msgs))
		}(i)
	}
	wg.Wait()

	// Last write wins: the surviving record must be one complete history,
	// never a partial interleaving.
	got, err := sessions.Load(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, core.RoleSystem, got[0].Role)
	assert.Contains(t, got[1].Content, "writer ")
}

func TestSessionStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	sessions := NewSessionStore(backend)

	ctx := context.Background()
	messages := []core.Message{
		{Role: core.RoleSystem, Content: "You are Chad."},
		{Role: core.RoleUser, Content: "remember me"},
	}
	require.NoError(t, sessions.Save(ctx, "durable", messages))
	require.NoError(t, backend.Close())

	backend2, err := OpenBackend(dir, false)
	require.NoError(t, err)
	defer backend2.Close()

	got, err := NewSessionStore(backend2).Load(ctx, "durable")
	require.NoError(t, err)
	assert.Equal(t, messages, got)
}
