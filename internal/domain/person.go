package domain

// Role represents a person's relationship to a unit.
type Role string

const (
	// RoleOwner indicates the person owns the unit.
	RoleOwner Role = "owner"
	// RoleResident indicates the person lives in the unit without owning it.
	RoleResident Role = "resident"
)

// ValidRole reports whether r is a known unit role.
func ValidRole(r Role) bool {
	return r == RoleOwner || r == RoleResident
}

// Person represents a resident account in the directory store.
type Person struct {
	Document
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses

	// RegistryID links a materialized person back to the registry resident
	// it was copied from. Zero for persons created directly in the directory.
	RegistryID int64 `json:"registry_id,omitempty"`
}

// FullName returns the person's display name.
func (p *Person) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// IsMaterialized returns true if this person was created as the directory
// counterpart of a registry resident.
func (p *Person) IsMaterialized() bool {
	return p.RegistryID != 0
}
