package domain

import "time"

// Document provides common fields for entities stored in the directory store.
// It gets embedded in every directory-side domain type.
type Document struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
// Call this whenever the underlying entity changes.
func (d *Document) Touch() {
	d.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (d *Document) InitTimestamps() {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
}
