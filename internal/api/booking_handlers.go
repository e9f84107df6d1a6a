package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vecindario/vecindario-server/internal/domain"
	"github.com/vecindario/vecindario-server/internal/service"
)

func (s *Server) registerBookingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "create-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings",
		Summary:     "Create a booking",
		Description: "Books an amenity time slot. The person field accepts a directory ID, a registry ID, or an email.",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "get-booking",
		Method:      http.MethodGet,
		Path:        "/api/v1/bookings/{id}",
		Summary:     "Get a booking",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "update-booking",
		Method:      http.MethodPatch,
		Path:        "/api/v1/bookings/{id}",
		Summary:     "Update a booking",
		Description: "Changes a booking. Moving it to another amenity, date, or time re-runs the availability and overlap checks.",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancel-booking",
		Method:      http.MethodPost,
		Path:        "/api/v1/bookings/{id}/cancel",
		Summary:     "Cancel a booking",
		Description: "Marks the booking cancelled, freeing its time slot. The record is kept.",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCancelBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-booking",
		Method:      http.MethodDelete,
		Path:        "/api/v1/bookings/{id}",
		Summary:     "Delete a booking",
		Description: "Removes the booking outright.",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBooking)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-person-bookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/persons/{id}/bookings",
		Summary:     "List a person's bookings",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPersonBookings)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-amenity-bookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/amenities/{id}/bookings",
		Summary:     "List an amenity's bookings on a date",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAmenityBookings)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-association-bookings",
		Method:      http.MethodGet,
		Path:        "/api/v1/associations/{id}/bookings",
		Summary:     "List an association's bookings",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAssociationBookings)

	huma.Register(s.api, huma.Operation{
		OperationID: "check-slot",
		Method:      http.MethodGet,
		Path:        "/api/v1/amenities/{id}/availability",
		Summary:     "Check slot availability",
		Description: "Probes a time slot without booking it.",
		Tags:        []string{"Bookings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCheckSlot)
}

// === DTOs ===

// BookingResponse contains a booking.
type BookingResponse struct {
	ID            string    `json:"id" doc:"Booking ID"`
	AmenityID     string    `json:"amenity_id" doc:"Booked amenity ID"`
	PersonID      string    `json:"person_id" doc:"Directory person the booking belongs to"`
	AssociationID string    `json:"association_id" doc:"Association owning the amenity"`
	Date          string    `json:"date" doc:"Booking date (YYYY-MM-DD)"`
	TimeStart     string    `json:"time_start" doc:"Start time (HH:MM)"`
	TimeEnd       string    `json:"time_end" doc:"End time (HH:MM)"`
	Status        string    `json:"status" doc:"Booking status (confirmed or cancelled)"`
	Notes         string    `json:"notes,omitempty" doc:"Free-form notes"`
	CreatedAt     time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt     time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// BookingOutput wraps a booking for Huma.
type BookingOutput struct {
	Body BookingResponse
}

// BookingListOutput wraps a booking list for Huma.
type BookingListOutput struct {
	Body []BookingResponse
}

// CreateBookingInput wraps the booking request for Huma.
type CreateBookingInput struct {
	Body struct {
		Person    string `json:"person" validate:"required" doc:"Directory ID, registry ID, or email"`
		AmenityID string `json:"amenity_id" validate:"required" doc:"Amenity to book"`
		Date      string `json:"date" validate:"required" doc:"Booking date (YYYY-MM-DD)"`
		TimeStart string `json:"time_start" validate:"required" doc:"Start time (HH:MM)"`
		TimeEnd   string `json:"time_end" validate:"required" doc:"End time (HH:MM)"`
		Notes     string `json:"notes,omitempty" validate:"max=500" doc:"Free-form notes"`
	}
}

// BookingIDInput identifies a booking by ID.
type BookingIDInput struct {
	ID string `path:"id" doc:"Booking ID"`
}

// UpdateBookingInput wraps booking changes for Huma.
type UpdateBookingInput struct {
	ID   string `path:"id" doc:"Booking ID"`
	Body struct {
		AmenityID *string `json:"amenity_id,omitempty" doc:"Move to another amenity"`
		Date      *string `json:"date,omitempty" doc:"New date (YYYY-MM-DD)"`
		TimeStart *string `json:"time_start,omitempty" doc:"New start time (HH:MM)"`
		TimeEnd   *string `json:"time_end,omitempty" doc:"New end time (HH:MM)"`
		Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500" doc:"Free-form notes"`
	}
}

// PersonBookingsInput identifies a person for listing their bookings.
type PersonBookingsInput struct {
	ID string `path:"id" doc:"Directory ID, registry ID, or email"`
}

// AmenityBookingsInput identifies an amenity slot day.
type AmenityBookingsInput struct {
	ID   string `path:"id" doc:"Amenity ID"`
	Date string `query:"date" required:"true" doc:"Date to list (YYYY-MM-DD)"`
}

// CheckSlotInput describes a slot to probe.
type CheckSlotInput struct {
	ID        string `path:"id" doc:"Amenity ID"`
	Date      string `query:"date" required:"true" doc:"Date (YYYY-MM-DD)"`
	TimeStart string `query:"time_start" required:"true" doc:"Start time (HH:MM)"`
	TimeEnd   string `query:"time_end" required:"true" doc:"End time (HH:MM)"`
}

// AvailabilityResponse reports the result of a slot probe.
type AvailabilityResponse struct {
	Available bool `json:"available" doc:"Whether the slot can be booked"`
}

// AvailabilityOutput wraps the availability response for Huma.
type AvailabilityOutput struct {
	Body AvailabilityResponse
}

func mapBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		AmenityID:     b.AmenityID,
		PersonID:      b.PersonID,
		AssociationID: b.AssociationID,
		Date:          b.Date,
		TimeStart:     b.TimeStart,
		TimeEnd:       b.TimeEnd,
		Status:        string(b.Status),
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleCreateBooking(ctx context.Context, input *CreateBookingInput) (*BookingOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	booking, err := s.services.Booking.Create(ctx, service.CreateBookingRequest{
		Person:    input.Body.Person,
		AmenityID: input.Body.AmenityID,
		Date:      input.Body.Date,
		TimeStart: input.Body.TimeStart,
		TimeEnd:   input.Body.TimeEnd,
		Notes:     input.Body.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &BookingOutput{Body: mapBookingResponse(booking)}, nil
}

func (s *Server) handleGetBooking(ctx context.Context, input *BookingIDInput) (*BookingOutput, error) {
	booking, err := s.services.Booking.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookingOutput{Body: mapBookingResponse(booking)}, nil
}

func (s *Server) handleUpdateBooking(ctx context.Context, input *UpdateBookingInput) (*BookingOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	booking, err := s.services.Booking.Update(ctx, input.ID, service.UpdateBookingRequest{
		AmenityID: input.Body.AmenityID,
		Date:      input.Body.Date,
		TimeStart: input.Body.TimeStart,
		TimeEnd:   input.Body.TimeEnd,
		Notes:     input.Body.Notes,
	})
	if err != nil {
		return nil, err
	}
	return &BookingOutput{Body: mapBookingResponse(booking)}, nil
}

func (s *Server) handleCancelBooking(ctx context.Context, input *BookingIDInput) (*BookingOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	booking, err := s.services.Booking.Cancel(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookingOutput{Body: mapBookingResponse(booking)}, nil
}

func (s *Server) handleDeleteBooking(ctx context.Context, input *BookingIDInput) (*EmptyOutput, error) {
	if _, err := GetPersonID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Booking.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &EmptyOutput{Status: http.StatusNoContent}, nil
}

func (s *Server) handleListAssociationBookings(ctx context.Context, input *AssociationIDInput) (*BookingListOutput, error) {
	bookings, err := s.services.Booking.ListForAssociation(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, mapBookingResponse(b))
	}
	return &BookingListOutput{Body: out}, nil
}

func (s *Server) handleListPersonBookings(ctx context.Context, input *PersonBookingsInput) (*BookingListOutput, error) {
	bookings, err := s.services.Booking.ListForPerson(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, mapBookingResponse(b))
	}
	return &BookingListOutput{Body: out}, nil
}

func (s *Server) handleListAmenityBookings(ctx context.Context, input *AmenityBookingsInput) (*BookingListOutput, error) {
	bookings, err := s.services.Booking.ListForAmenity(ctx, input.ID, input.Date)
	if err != nil {
		return nil, err
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, mapBookingResponse(b))
	}
	return &BookingListOutput{Body: out}, nil
}

func (s *Server) handleCheckSlot(ctx context.Context, input *CheckSlotInput) (*AvailabilityOutput, error) {
	if err := s.services.Booking.CheckSlot(ctx, input.ID, input.Date, input.TimeStart, input.TimeEnd); err != nil {
		return nil, err
	}
	return &AvailabilityOutput{Body: AvailabilityResponse{Available: true}}, nil
}
