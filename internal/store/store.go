// Package store implements the directory document store on Badger.
// Persons, associations, amenities, and bookings live here under opaque
// 24-hex IDs; the relational registry lives in the sqlite subpackage.
package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/normalize"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Persons      *Entity[domain.Person]
	Associations *Entity[domain.Association]
	Amenities    *Entity[domain.Amenity]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initPersons()
	store.initAssociations()
	store.initAmenities()

	if logger != nil {
		logger.Info("directory store opened", "path", path)
	}

	return store, nil
}

// Ping reports whether the database is open.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return ErrUnavailable
	}
	return nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing directory store")
	}
	return s.db.Close()
}

// initPersons initializes the Persons entity on the store.
// Uses case-insensitive email indexing via normalize.Email, so a lookup
// with any casing finds the same person.
func (s *Store) initPersons() {
	s.Persons = NewEntity[domain.Person](s, "person:").
		WithIndexTransform("email",
			func(p *domain.Person) []string {
				return []string{normalize.Email(p.Email)}
			},
			normalize.Email,
		)
}

// initAssociations initializes the Associations entity on the store.
func (s *Store) initAssociations() {
	s.Associations = NewEntity[domain.Association](s, "association:")
}

// initAmenities initializes the Amenities entity on the store.
// Indexed by association so an association's amenities can be listed
// without a full scan.
func (s *Store) initAmenities() {
	s.Amenities = NewEntity[domain.Amenity](s, "amenity:").
		WithIndex("association", func(a *domain.Amenity) []string {
			return []string{a.AssociationID + ":" + a.ID}
		})
}

// ListAmenitiesByAssociation returns all amenities of an association.
func (s *Store) ListAmenitiesByAssociation(ctx context.Context, associationID string) ([]*domain.Amenity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := []byte("amenity:idx:association:" + associationID + ":")

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	amenities := make([]*domain.Amenity, 0, len(ids))
	for _, id := range ids {
		var a domain.Amenity
		if err := s.get([]byte("amenity:"+id), &a); err != nil {
			return nil, err
		}
		amenities = append(amenities, &a)
	}
	return amenities, nil
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}
