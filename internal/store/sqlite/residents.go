package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/normalize"
	"github.com/vecindario/vecindario-server/internal/store"
)

// residentColumns is the ordered list of columns selected in resident
// queries. Must match the scan order in scanResident.
const residentColumns = `id, first_name, last_name, email, password_hash, created_at, updated_at`

// scanResident scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Resident.
func scanResident(scanner interface{ Scan(dest ...any) error }) (*domain.Resident, error) {
	var r domain.Resident

	var (
		passwordHash sql.NullString
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&r.ID,
		&r.FirstName,
		&r.LastName,
		&r.Email,
		&passwordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash.Valid {
		r.PasswordHash = passwordHash.String
	}
	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateResident inserts a new resident and fills in the generated ID.
// Returns store.ErrAlreadyExists if the email is already registered.
func (s *Store) CreateResident(ctx context.Context, r *domain.Resident) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO residents (first_name, last_name, email, email_norm, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.FirstName,
		r.LastName,
		r.Email,
		normalize.Email(r.Email),
		nullString(r.PasswordHash),
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		return mapConstraintErr(err)
	}

	r.ID, err = res.LastInsertId()
	return err
}

// GetResident retrieves a resident by ID.
// Returns store.ErrNotFound if the resident does not exist.
func (s *Store) GetResident(ctx context.Context, id int64) (*domain.Resident, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+residentColumns+` FROM residents WHERE id = ?`, id)

	r, err := scanResident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetResidentByEmail retrieves a resident by normalized email, so lookups
// are case-insensitive. Returns store.ErrNotFound if no resident matches.
func (s *Store) GetResidentByEmail(ctx context.Context, email string) (*domain.Resident, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+residentColumns+` FROM residents WHERE email_norm = ?`, normalize.Email(email))

	r, err := scanResident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateResident rewrites a resident's mutable fields.
// Returns store.ErrNotFound if the resident does not exist.
func (s *Store) UpdateResident(ctx context.Context, r *domain.Resident) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE residents
		SET first_name = ?, last_name = ?, email = ?, email_norm = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`,
		r.FirstName,
		r.LastName,
		r.Email,
		normalize.Email(r.Email),
		nullString(r.PasswordHash),
		formatTime(r.UpdatedAt),
		r.ID,
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

// DeleteResident removes a resident. Memberships cascade.
func (s *Store) DeleteResident(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM residents WHERE id = ?`, id)
	return err
}

// ListResidents returns all residents ordered by ID.
func (s *Store) ListResidents(ctx context.Context) ([]*domain.Resident, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+residentColumns+` FROM residents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var residents []*domain.Resident
	for rows.Next() {
		r, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		residents = append(residents, r)
	}
	return residents, rows.Err()
}
