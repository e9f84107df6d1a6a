package domain

import "time"

// BookingStatus represents the lifecycle state of a stored booking.
type BookingStatus string

const (
	// BookingStatusConfirmed indicates an admitted, active booking.
	BookingStatusConfirmed BookingStatus = "confirmed"
	// BookingStatusCancelled indicates a booking the person cancelled.
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a reservation of an amenity for a time window on a
// calendar date. PersonID always refers to a directory person, and
// AssociationID is stamped from the amenity, never taken from the caller.
type Booking struct {
	Document
	AmenityID     string        `json:"amenity_id"`
	PersonID      string        `json:"person_id"`
	AssociationID string        `json:"association_id"`
	Date          string        `json:"date"` // YYYY-MM-DD
	TimeStart     string        `json:"time_start"`
	TimeEnd       string        `json:"time_end"`
	Status        BookingStatus `json:"status"`
	Notes         string        `json:"notes,omitempty"`
}

// IsDate reports whether s is a valid YYYY-MM-DD calendar date.
func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// IsActive returns true if the booking still occupies its time slot.
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// ConflictsWith reports whether b and other occupy overlapping time on the
// same amenity and date. Cancelled bookings never conflict.
func (b *Booking) ConflictsWith(other *Booking) bool {
	if !b.IsActive() || !other.IsActive() {
		return false
	}
	if b.AmenityID != other.AmenityID || b.Date != other.Date {
		return false
	}
	s1, err := ParseClock(b.TimeStart)
	if err != nil {
		return false
	}
	e1, err := ParseClock(b.TimeEnd)
	if err != nil {
		return false
	}
	s2, err := ParseClock(other.TimeStart)
	if err != nil {
		return false
	}
	e2, err := ParseClock(other.TimeEnd)
	if err != nil {
		return false
	}
	return Overlaps(s1, e1, s2, e2)
}
