package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/store"
)

// AssignUnit ties a resident to a unit with a role, inside one transaction:
// both parties are checked, the unit membership is upserted, and the
// resident's association membership is created if it does not exist yet.
// Either everything commits or nothing does.
func (s *Store) AssignUnit(ctx context.Context, residentID, unitID int64, role domain.Role) (*domain.UnitMembership, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assign tx: %w", err)
	}
	defer tx.Rollback()

	var exists int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM residents WHERE id = ?`, residentID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("resident not found")
	}
	if err != nil {
		return nil, err
	}

	var associationID int64
	err = tx.QueryRowContext(ctx, `SELECT association_id FROM units WHERE id = ?`, unitID).Scan(&associationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("unit not found")
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m := &domain.UnitMembership{
		ResidentID: residentID,
		UnitID:     unitID,
		Role:       role,
		UpdatedAt:  now,
	}

	var createdAt string
	err = tx.QueryRowContext(ctx,
		`SELECT id, created_at FROM unit_memberships WHERE resident_id = ? AND unit_id = ?`,
		residentID, unitID).Scan(&m.ID, &createdAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		m.CreatedAt = now
		res, err := tx.ExecContext(ctx, `
			INSERT INTO unit_memberships (resident_id, unit_id, role, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)`,
			residentID, unitID, string(role), formatTime(now), formatTime(now))
		if err != nil {
			return nil, mapConstraintErr(err)
		}
		m.ID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		// Already assigned: update the role in place.
		m.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE unit_memberships SET role = ?, updated_at = ? WHERE id = ?`,
			string(role), formatTime(now), m.ID)
		if err != nil {
			return nil, err
		}
	}

	// Find-or-create the association membership. INSERT OR IGNORE keeps
	// the original created_at when it already exists.
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO association_memberships (resident_id, association_id, created_at)
		VALUES (?, ?, ?)`,
		residentID, associationID, formatTime(now))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign tx: %w", err)
	}
	return m, nil
}

// RemoveUnit deletes the membership between a resident and a unit.
// Returns store.ErrNotAssigned when no such membership exists. The
// resident's association membership is left untouched.
func (s *Store) RemoveUnit(ctx context.Context, residentID, unitID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM unit_memberships WHERE resident_id = ? AND unit_id = ?`,
		residentID, unitID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotAssigned
	}
	return nil
}

// GetUnitMembership retrieves the membership between a resident and a unit.
func (s *Store) GetUnitMembership(ctx context.Context, residentID, unitID int64) (*domain.UnitMembership, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, resident_id, unit_id, role, created_at, updated_at
		FROM unit_memberships WHERE resident_id = ? AND unit_id = ?`,
		residentID, unitID)

	m, err := scanUnitMembership(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListUnitMemberships returns a resident's unit memberships.
func (s *Store) ListUnitMemberships(ctx context.Context, residentID int64) ([]*domain.UnitMembership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resident_id, unit_id, role, created_at, updated_at
		FROM unit_memberships WHERE resident_id = ? ORDER BY unit_id`,
		residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*domain.UnitMembership
	for rows.Next() {
		m, err := scanUnitMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// ListUnitResidents returns the memberships on a unit.
func (s *Store) ListUnitResidents(ctx context.Context, unitID int64) ([]*domain.UnitMembership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resident_id, unit_id, role, created_at, updated_at
		FROM unit_memberships WHERE unit_id = ? ORDER BY resident_id`,
		unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*domain.UnitMembership
	for rows.Next() {
		m, err := scanUnitMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

// ListAssociationMemberships returns a resident's association memberships.
func (s *Store) ListAssociationMemberships(ctx context.Context, residentID int64) ([]*domain.AssociationMembership, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resident_id, association_id, created_at
		FROM association_memberships WHERE resident_id = ? ORDER BY association_id`,
		residentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memberships []*domain.AssociationMembership
	for rows.Next() {
		var (
			m         domain.AssociationMembership
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.ResidentID, &m.AssociationID, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, &m)
	}
	return memberships, rows.Err()
}

func scanUnitMembership(scanner interface{ Scan(dest ...any) error }) (*domain.UnitMembership, error) {
	var (
		m         domain.UnitMembership
		role      string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&m.ID, &m.ResidentID, &m.UnitID, &role, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	m.Role = domain.Role(role)
	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}
