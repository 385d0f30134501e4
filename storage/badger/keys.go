package badger

import (
	"fmt"

	"github.com/empirelabs/chad/core"
)

// Key prefixes for different record types
const (
	sessionPrefix = "sess"
	chunkPrefix   = "chunk"
)

// makeSessionKey generates a key for a session record by its identifier.
func makeSessionKey(sessionID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", sessionPrefix, sessionID))
}

// makeChunkKey generates a key for a knowledge chunk by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkPrefix, id))
}
