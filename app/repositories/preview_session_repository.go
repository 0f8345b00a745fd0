package repositories

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"folio/app/models"
)

// BadgerPreviewSessionRepository implements PreviewSessionRepository using BadgerDB.
// Sessions are written with a TTL so badger discards them once they expire.
type BadgerPreviewSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerPreviewSessionRepository creates a new BadgerPreviewSessionRepository
func NewBadgerPreviewSessionRepository(db *badger.DB) *BadgerPreviewSessionRepository {
	return &BadgerPreviewSessionRepository{db: db, now: time.Now}
}

// Create stores a session until its expiry time.
func (r *BadgerPreviewSessionRepository) Create(session *models.PreviewSession) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid preview session: %w", err)
	}
	ttl := session.TTL(r.now())
	if ttl <= 0 {
		return fmt.Errorf("preview session %s already expired", session.ID)
	}

	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(previewKey(session.ID), data).WithTTL(ttl))
	})
}

// GetByID returns a live session.
func (r *BadgerPreviewSessionRepository) GetByID(id string) (*models.PreviewSession, error) {
	var session models.PreviewSession
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(previewKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}
	// Badger expiry has second granularity.
	if session.ExpiredAt(r.now()) {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *BadgerPreviewSessionRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(previewKey(id))
	})
}
