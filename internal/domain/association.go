package domain

// Association represents a residential community in the directory store.
// Amenities and bookings hang off an association.
type Association struct {
	Document
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}
