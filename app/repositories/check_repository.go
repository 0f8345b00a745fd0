package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"folio/app/models"
)

// MaxChecks bounds the stored check history.
const MaxChecks = 50

// BadgerCheckRepository implements CheckRepository using BadgerDB
type BadgerCheckRepository struct {
	db *badger.DB
}

// NewBadgerCheckRepository creates a new BadgerCheckRepository
func NewBadgerCheckRepository(db *badger.DB) *BadgerCheckRepository {
	return &BadgerCheckRepository{db: db}
}

// Create records a check and prunes the oldest ones beyond MaxChecks.
func (r *BadgerCheckRepository) Create(check *models.ConnectivityCheck) error {
	check.BeforeCreate()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid connectivity check: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		id, err := getNextID(txn, CheckSeqKey)
		if err != nil {
			return err
		}
		check.ID = id

		data, err := marshalEntity(check)
		if err != nil {
			return err
		}
		if err := txn.Set(checkKey(id), data); err != nil {
			return err
		}
		if id > MaxChecks {
			return txn.Delete(checkKey(id - MaxChecks))
		}
		return nil
	})
}

// List returns up to limit checks, newest first. A non-positive limit returns all.
func (r *BadgerCheckRepository) List(limit int) ([]*models.ConnectivityCheck, error) {
	var checks []*models.ConnectivityCheck
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(CheckKeyPrefix)
		seek := append([]byte(CheckKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(checks) >= limit {
				break
			}
			var check models.ConnectivityCheck
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &check)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal check: %w", err)
			}
			checks = append(checks, &check)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checks, nil
}

// Clear removes the check history. The id sequence keeps counting.
func (r *BadgerCheckRepository) Clear() error {
	return r.db.DropPrefix([]byte(CheckKeyPrefix))
}
