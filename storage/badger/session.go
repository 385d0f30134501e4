package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/empirelabs/chad/core"
	"github.com/empirelabs/chad/storage"
)

// SessionStore implements storage.SessionStore for BadgerDB.
type SessionStore struct {
	backend *Backend
}

var _ storage.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new SessionStore on the given backend.
func NewSessionStore(backend *Backend) *SessionStore {
	return &SessionStore{backend: backend}
}

// Load retrieves the message history for a session.
// Unknown identifiers yield an empty history, not an error.
func (s *SessionStore) Load(ctx context.Context, sessionID string) ([]core.Message, error) {
	var messages []core.Message

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSessionKey(sessionID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			msgs, _, err := storage.UnmarshalSession(val)
			if err != nil {
				return err
			}
			messages = msgs
			return nil
		})
	}, false)

	if err != nil {
		return nil, err
	}
	if messages == nil {
		return []core.Message{}, nil
	}
	return messages, nil
}

// Save stores the full message history for a session, replacing any
// prior record. Badger transactions make the replacement atomic, so
// readers see either the old record or the new one.
func (s *SessionStore) Save(ctx context.Context, sessionID string, messages []core.Message) error {
	value := storage.MarshalSession(messages, time.Now().UTC())
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeSessionKey(sessionID), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close is a no-op; the backend owns the database handle.
func (s *SessionStore) Close() error {
	return nil
}
