package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for knowledge chunks.
// It is generated from chunk content so that identical content
// always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleSystem is the gateway-injected system prompt or context block.
	RoleSystem Role = "system"
	// RoleUser is the end user.
	RoleUser Role = "user"
	// RoleAssistant is the model's reply.
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Messages are immutable
// once created; ordering within a session is significant.
type Message struct {
	Role    Role
	Content string
}

// Session is an ordered conversation history keyed by an opaque identifier.
// When non-empty, Messages[0] is always the system prompt.
type Session struct {
	ID        string
	Messages  []Message
	UpdatedAt time.Time
}

// Trim returns the history reduced to the system prompt plus the most
// recent maxMsgs messages. Histories at or under the cap are returned
// unchanged.
func Trim(messages []Message, maxMsgs int) []Message {
	if maxMsgs < 1 || len(messages) <= maxMsgs+1 {
		return messages
	}
	trimmed := make([]Message, 0, maxMsgs+1)
	trimmed = append(trimmed, messages[0])
	trimmed = append(trimmed, messages[len(messages)-maxMsgs:]...)
	return trimmed
}

// RetrievedChunk is a knowledge fragment returned by the retrieval store.
// Chunks are produced transiently per request and never persisted by the
// gateway itself.
type RetrievedChunk struct {
	ID     ID
	Text   string
	Source string
	Score  float32
}

// KnowledgeChunk is an indexed knowledge fragment with its embedding.
// Produced by the ingestion pipeline, consumed read-only by retrieval.
type KnowledgeChunk struct {
	Id         ID
	Text       string
	Source     string
	Vector     []float32
	InsertedAt time.Time
}
