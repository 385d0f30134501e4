package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Admit(t *testing.T) {
	t.Run("admits up to the ceiling", func(t *testing.T) {
		limiter := NewRateLimiter(3)
		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Admit("client"))
		}
		assert.False(t, limiter.Admit("client"))
	})

	t.Run("clients are independent", func(t *testing.T) {
		limiter := NewRateLimiter(1)
		assert.True(t, limiter.Admit("a"))
		assert.True(t, limiter.Admit("b"))
		assert.False(t, limiter.Admit("a"))
	})

	t.Run("admits again after the window elapses", func(t *testing.T) {
		current := time.Now()
		limiter := NewRateLimiter(2)
		limiter.now = func() time.Time { return current }

		assert.True(t, limiter.Admit("client"))
		assert.True(t, limiter.Admit("client"))
		assert.False(t, limiter.Admit("client"))

		current = current.Add(61 * time.Second)
		assert.True(t, limiter.Admit("client"))
	})

	t.Run("rejection does not consume a slot", func(t *testing.T) {
		current := time.Now()
		limiter := NewRateLimiter(1)
		limiter.now = func() time.Time { return current }

		assert.True(t, limiter.Admit("client"))
		assert.False(t, limiter.Admit("client"))
		assert.False(t, limiter.Admit("client"))

		// Only the single accepted timestamp must age out.
		current = current.Add(61 * time.Second)
		assert.True(t, limiter.Admit("client"))
	})
}

func TestRateLimiter_Sweep(t *testing.T) {
	current := time.Now()
	limiter := NewRateLimiter(5)
	limiter.now = func() time.Time { return current }

	limiter.Admit("old")
	current = current.Add(30 * time.Second)
	limiter.Admit("fresh")

	current = current.Add(35 * time.Second)
	limiter.Sweep()

	// "old" aged out entirely, "fresh" still has an in-window stamp.
	assert.Equal(t, 1, limiter.clientCount())
	assert.True(t, limiter.Admit("old"))
}
