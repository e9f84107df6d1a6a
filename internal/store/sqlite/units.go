package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/store"
)

const unitColumns = `id, association_id, number, floor, created_at, updated_at`

func scanUnit(scanner interface{ Scan(dest ...any) error }) (*domain.Unit, error) {
	var u domain.Unit

	var (
		floor     sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&u.ID, &u.AssociationID, &u.Number, &floor, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	u.Floor = floor.String
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUnit inserts a new unit and fills in the generated ID.
// Returns store.ErrNotFound if the association does not exist and
// store.ErrAlreadyExists if the unit number is taken in the association.
func (s *Store) CreateUnit(ctx context.Context, u *domain.Unit) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO units (association_id, number, floor, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.AssociationID,
		u.Number,
		nullString(u.Floor),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.ErrNotFound.WithMessage("association not found")
		}
		return mapConstraintErr(err)
	}

	u.ID, err = res.LastInsertId()
	return err
}

// GetUnit retrieves a unit by ID.
func (s *Store) GetUnit(ctx context.Context, id int64) (*domain.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM units WHERE id = ?`, id)

	u, err := scanUnit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUnit rewrites a unit's mutable fields.
func (s *Store) UpdateUnit(ctx context.Context, u *domain.Unit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE units SET number = ?, floor = ?, updated_at = ? WHERE id = ?`,
		u.Number,
		nullString(u.Floor),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		return mapConstraintErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteUnit removes a unit. Memberships cascade.
func (s *Store) DeleteUnit(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	return err
}

// ListUnitsByAssociation returns all units of an association ordered by number.
func (s *Store) ListUnitsByAssociation(ctx context.Context, associationID int64) ([]*domain.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+unitColumns+` FROM units WHERE association_id = ? ORDER BY number`, associationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}
