package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/vecindario/vecindario-server/internal/domain"
)

// Bookings do not go through the generic Entity because the overlap check
// and the write must happen in the same transaction. Every writer of a
// (amenity, date) slot reads and rewrites the slot marker key, so Badger's
// conflict detection serializes them even when the slot scan itself finds
// nothing. Losers retry and then see the winner's booking.
//
// Key layout:
//
//	booking:<id>                                  -> booking JSON
//	booking:slot:<amenityID>:<date>               -> last writer booking id
//	booking:idx:slot:<amenityID>:<date>:<id>      -> id
//	booking:idx:person:<personID>:<id>            -> id
//	booking:idx:assoc:<associationID>:<id>        -> id

const bookingPrefix = "booking:"

// writeAttempts bounds retries when concurrent slot writers collide.
const writeAttempts = 10

func bookingKey(id string) []byte {
	return []byte(bookingPrefix + id)
}

func slotMarkerKey(amenityID, date string) []byte {
	return []byte(bookingPrefix + "slot:" + amenityID + ":" + date)
}

func slotPrefix(amenityID, date string) []byte {
	return []byte(bookingPrefix + "idx:slot:" + amenityID + ":" + date + ":")
}

func bookingIndexKeys(b *domain.Booking) [][]byte {
	return [][]byte{
		[]byte(bookingPrefix + "idx:slot:" + b.AmenityID + ":" + b.Date + ":" + b.ID),
		[]byte(bookingPrefix + "idx:person:" + b.PersonID + ":" + b.ID),
		[]byte(bookingPrefix + "idx:assoc:" + b.AssociationID + ":" + b.ID),
	}
}

// CreateBooking inserts a booking after verifying no active booking
// overlaps it on the same amenity and date. The check and the insert run
// in one transaction; returns ErrTimeConflict when the slot is taken.
func (s *Store) CreateBooking(ctx context.Context, b *domain.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	return s.updateWithRetry(func(txn *badger.Txn) error {
		_, err := txn.Get(bookingKey(b.ID))
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("failed to check existing booking: %w", err)
		}

		conflict, err := s.slotConflict(txn, b, "")
		if err != nil {
			return err
		}
		if conflict {
			return ErrTimeConflict
		}

		return s.writeBooking(txn, b, data)
	})
}

// updateWithRetry runs fn in an update transaction, retrying on Badger
// commit conflicts caused by concurrent slot writers.
func (s *Store) updateWithRetry(fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < writeAttempts; i++ {
		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return fmt.Errorf("booking write kept conflicting: %w", err)
}

// UpdateBooking rewrites an existing booking. When revalidate is true the
// slot is re-checked for overlaps, excluding the booking itself; callers
// skip revalidation when neither amenity, date, nor times changed.
func (s *Store) UpdateBooking(ctx context.Context, b *domain.Booking, revalidate bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	return s.updateWithRetry(func(txn *badger.Txn) error {
		old, err := s.loadBooking(txn, b.ID)
		if err != nil {
			return err
		}

		if revalidate {
			conflict, err := s.slotConflict(txn, b, b.ID)
			if err != nil {
				return err
			}
			if conflict {
				return ErrTimeConflict
			}
		}

		for _, key := range bookingIndexKeys(old) {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete old index key: %w", err)
			}
		}

		return s.writeBooking(txn, b, data)
	})
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b *domain.Booking
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		b, err = s.loadBooking(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBooking removes a booking and its index keys.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		b, err := s.loadBooking(txn, id)
		if err != nil {
			return err
		}

		for _, key := range bookingIndexKeys(b) {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
		return txn.Delete(bookingKey(id))
	})
}

// FindConflicting returns active bookings on the amenity and date that
// overlap the half-open window [timeStart, timeEnd), excluding excludeID
// when non-empty. Read-only; the authoritative check happens inside
// CreateBooking and UpdateBooking.
func (s *Store) FindConflicting(ctx context.Context, amenityID, date, timeStart, timeEnd, excludeID string) ([]*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	probe := &domain.Booking{
		AmenityID: amenityID,
		Date:      date,
		TimeStart: timeStart,
		TimeEnd:   timeEnd,
		Status:    domain.BookingStatusConfirmed,
	}

	var conflicts []*domain.Booking
	err := s.db.View(func(txn *badger.Txn) error {
		return s.scanSlot(txn, amenityID, date, func(b *domain.Booking) error {
			if b.ID != excludeID && probe.ConflictsWith(b) {
				conflicts = append(conflicts, b)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return conflicts, nil
}

// ListBookingsForSlot returns all bookings on an amenity for a date.
func (s *Store) ListBookingsForSlot(ctx context.Context, amenityID, date string) ([]*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bookings []*domain.Booking
	err := s.db.View(func(txn *badger.Txn) error {
		return s.scanSlot(txn, amenityID, date, func(b *domain.Booking) error {
			bookings = append(bookings, b)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListBookingsByPerson returns all bookings made by a person.
func (s *Store) ListBookingsByPerson(ctx context.Context, personID string) ([]*domain.Booking, error) {
	return s.listByIndex(ctx, bookingPrefix+"idx:person:"+personID+":")
}

// ListBookingsByAssociation returns all bookings within an association.
func (s *Store) ListBookingsByAssociation(ctx context.Context, associationID string) ([]*domain.Booking, error) {
	return s.listByIndex(ctx, bookingPrefix+"idx:assoc:"+associationID+":")
}

func (s *Store) listByIndex(ctx context.Context, prefix string) ([]*domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var bookings []*domain.Booking
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanIndexIDs(txn, []byte(prefix))
		if err != nil {
			return err
		}
		for _, id := range ids {
			b, err := s.loadBooking(txn, id)
			if err != nil {
				return err
			}
			bookings = append(bookings, b)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// slotConflict reports whether any active booking in the slot overlaps b.
func (s *Store) slotConflict(txn *badger.Txn, b *domain.Booking, excludeID string) (bool, error) {
	conflict := false
	err := s.scanSlot(txn, b.AmenityID, b.Date, func(existing *domain.Booking) error {
		if existing.ID != excludeID && b.ConflictsWith(existing) {
			conflict = true
		}
		return nil
	})
	return conflict, err
}

// scanSlot visits every booking indexed under (amenityID, date).
func (s *Store) scanSlot(txn *badger.Txn, amenityID, date string, visit func(*domain.Booking) error) error {
	ids, err := scanIndexIDs(txn, slotPrefix(amenityID, date))
	if err != nil {
		return err
	}
	for _, id := range ids {
		b, err := s.loadBooking(txn, id)
		if err != nil {
			return err
		}
		if err := visit(b); err != nil {
			return err
		}
	}
	return nil
}

func scanIndexIDs(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		err := it.Item().Value(func(val []byte) error {
			ids = append(ids, string(val))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Store) loadBooking(txn *badger.Txn, id string) (*domain.Booking, error) {
	item, err := txn.Get(bookingKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	var b domain.Booking
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &b)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	return &b, nil
}

func (s *Store) writeBooking(txn *badger.Txn, b *domain.Booking, data []byte) error {
	if err := s.touchSlotMarker(txn, b); err != nil {
		return err
	}
	if err := txn.Set(bookingKey(b.ID), data); err != nil {
		return fmt.Errorf("failed to set booking: %w", err)
	}
	for _, key := range bookingIndexKeys(b) {
		if err := txn.Set(key, []byte(b.ID)); err != nil {
			return fmt.Errorf("failed to set index key: %w", err)
		}
	}
	return nil
}

// touchSlotMarker reads and rewrites the slot marker so that concurrent
// writers of the same slot cannot both commit. The read is what registers
// the conflict; the stored value is informational.
func (s *Store) touchSlotMarker(txn *badger.Txn, b *domain.Booking) error {
	key := slotMarkerKey(b.AmenityID, b.Date)
	if _, err := txn.Get(key); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to read slot marker: %w", err)
	}
	if err := txn.Set(key, []byte(b.ID)); err != nil {
		return fmt.Errorf("failed to set slot marker: %w", err)
	}
	return nil
}
