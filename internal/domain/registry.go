package domain

import "time"

// Registry-side entities live in the relational store and carry integer
// primary keys. The directory-side entities above use opaque string IDs;
// the identity resolver bridges the two.

// Resident is a registry-side person record.
type Resident struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegistryAssociation is a registry-side community record.
type RegistryAssociation struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit is a dwelling inside a registry association.
type Unit struct {
	ID            int64     `json:"id"`
	AssociationID int64     `json:"association_id"`
	Number        string    `json:"number"`
	Floor         string    `json:"floor,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UnitMembership ties a resident to a unit with a role. At most one
// membership exists per (resident, unit) pair; assigning again updates
// the role in place.
type UnitMembership struct {
	ID         int64     `json:"id"`
	ResidentID int64     `json:"resident_id"`
	UnitID     int64     `json:"unit_id"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AssociationMembership records that a resident belongs to an association.
// It is created automatically with the first unit assignment in that
// association and is never removed automatically.
type AssociationMembership struct {
	ID            int64     `json:"id"`
	ResidentID    int64     `json:"resident_id"`
	AssociationID int64     `json:"association_id"`
	CreatedAt     time.Time `json:"created_at"`
}
