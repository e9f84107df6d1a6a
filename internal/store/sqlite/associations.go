package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/store"
)

const associationColumns = `id, name, address, city, created_at, updated_at`

func scanAssociation(scanner interface{ Scan(dest ...any) error }) (*domain.RegistryAssociation, error) {
	var a domain.RegistryAssociation

	var (
		address   sql.NullString
		city      sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&a.ID, &a.Name, &address, &city, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	a.Address = address.String
	a.City = city.String
	a.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	a.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// CreateAssociation inserts a new association and fills in the generated ID.
func (s *Store) CreateAssociation(ctx context.Context, a *domain.RegistryAssociation) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO associations (name, address, city, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		a.Name,
		nullString(a.Address),
		nullString(a.City),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return mapConstraintErr(err)
	}

	a.ID, err = res.LastInsertId()
	return err
}

// GetAssociation retrieves an association by ID.
func (s *Store) GetAssociation(ctx context.Context, id int64) (*domain.RegistryAssociation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+associationColumns+` FROM associations WHERE id = ?`, id)

	a, err := scanAssociation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAssociation rewrites an association's mutable fields.
func (s *Store) UpdateAssociation(ctx context.Context, a *domain.RegistryAssociation) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE associations SET name = ?, address = ?, city = ?, updated_at = ? WHERE id = ?`,
		a.Name,
		nullString(a.Address),
		nullString(a.City),
		formatTime(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return err
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

// DeleteAssociation removes an association. Units and memberships cascade.
func (s *Store) DeleteAssociation(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM associations WHERE id = ?`, id)
	return err
}

// ListAssociations returns all associations ordered by ID.
func (s *Store) ListAssociations(ctx context.Context) ([]*domain.RegistryAssociation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+associationColumns+` FROM associations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var associations []*domain.RegistryAssociation
	for rows.Next() {
		a, err := scanAssociation(rows)
		if err != nil {
			return nil, err
		}
		associations = append(associations, a)
	}
	return associations, rows.Err()
}
