package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/id"
	"github.com/vecindario/vecindario-server/internal/store"
)

// BookingService admits bookings through a fixed pipeline: request
// validation, identity resolution, availability checks, then the
// transactional overlap check and write. Stored bookings always carry the
// resolved directory person ID and the amenity's own association ID.
type BookingService struct {
	directory *store.Store
	identity  *IdentityService
	logger    *slog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(directory *store.Store, identity *IdentityService, logger *slog.Logger) *BookingService {
	return &BookingService{
		directory: directory,
		identity:  identity,
		logger:    logger,
	}
}

// CreateBookingRequest contains a booking submission. Person accepts a
// directory ID, a registry ID, or an email.
type CreateBookingRequest struct {
	Person    string `json:"person" validate:"required"`
	AmenityID string `json:"amenity_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	TimeStart string `json:"time_start" validate:"required"`
	TimeEnd   string `json:"time_end" validate:"required"`
	Notes     string `json:"notes" validate:"max=500"`
}

// UpdateBookingRequest carries booking changes. Nil fields stay as they
// are; availability and overlaps are re-checked only when the amenity,
// date, or times actually change.
type UpdateBookingRequest struct {
	AmenityID *string `json:"amenity_id,omitempty"`
	Date      *string `json:"date,omitempty"`
	TimeStart *string `json:"time_start,omitempty"`
	TimeEnd   *string `json:"time_end,omitempty"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Create runs the admission pipeline and stores the booking.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if err := validateWindow(req.Date, req.TimeStart, req.TimeEnd); err != nil {
		return nil, err
	}

	person, err := s.identity.ResolvePerson(ctx, req.Person)
	if err != nil {
		return nil, err
	}

	amenity, err := s.getAmenity(ctx, req.AmenityID)
	if err != nil {
		return nil, err
	}
	if err := checkAvailability(amenity, req.TimeStart, req.TimeEnd); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		AmenityID: amenity.ID,
		PersonID:  person.ID,
		// Stamped from the amenity, never from the caller.
		AssociationID: amenity.AssociationID,
		Date:          req.Date,
		TimeStart:     req.TimeStart,
		TimeEnd:       req.TimeEnd,
		Status:        domain.BookingStatusConfirmed,
		Notes:         req.Notes,
	}
	booking.ID, err = id.NewObjectID()
	if err != nil {
		return nil, fmt.Errorf("generate booking ID: %w", err)
	}
	booking.InitTimestamps()

	if err := s.directory.CreateBooking(ctx, booking); err != nil {
		if errors.Is(err, store.ErrTimeConflict) {
			return nil, domainerrors.TimeConflict("there is already a booking for this time")
		}
		return nil, fmt.Errorf("store booking: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("booking admitted",
			"booking_id", booking.ID,
			"amenity_id", amenity.ID,
			"person_id", person.ID,
			"date", booking.Date,
		)
	}
	return booking, nil
}

// Update applies changes to an existing booking. When the amenity, date,
// or times change, the availability checks and the overlap check run
// again, excluding the booking itself.
func (s *BookingService) Update(ctx context.Context, bookingID string, req UpdateBookingRequest) (*domain.Booking, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	booking, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	slotChanged := false
	if req.AmenityID != nil && *req.AmenityID != booking.AmenityID {
		booking.AmenityID = *req.AmenityID
		slotChanged = true
	}
	if req.Date != nil && *req.Date != booking.Date {
		booking.Date = *req.Date
		slotChanged = true
	}
	if req.TimeStart != nil && *req.TimeStart != booking.TimeStart {
		booking.TimeStart = *req.TimeStart
		slotChanged = true
	}
	if req.TimeEnd != nil && *req.TimeEnd != booking.TimeEnd {
		booking.TimeEnd = *req.TimeEnd
		slotChanged = true
	}
	if req.Notes != nil {
		booking.Notes = *req.Notes
	}

	if slotChanged {
		if err := validateWindow(booking.Date, booking.TimeStart, booking.TimeEnd); err != nil {
			return nil, err
		}
		amenity, err := s.getAmenity(ctx, booking.AmenityID)
		if err != nil {
			return nil, err
		}
		if err := checkAvailability(amenity, booking.TimeStart, booking.TimeEnd); err != nil {
			return nil, err
		}
		booking.AssociationID = amenity.AssociationID
	}

	booking.Touch()
	if err := s.directory.UpdateBooking(ctx, booking, slotChanged); err != nil {
		if errors.Is(err, store.ErrTimeConflict) {
			return nil, domainerrors.TimeConflict("there is already a booking for this time")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("booking %s not found", bookingID)
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return booking, nil
}

// Cancel marks a booking cancelled, freeing its time slot.
func (s *BookingService) Cancel(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return booking, nil
	}

	booking.Status = domain.BookingStatusCancelled
	booking.Touch()
	if err := s.directory.UpdateBooking(ctx, booking, false); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("booking cancelled", "booking_id", booking.ID)
	}
	return booking, nil
}

// Delete removes a booking outright. Unlike Cancel it leaves no record
// behind; there is no invariant to maintain after the delete.
func (s *BookingService) Delete(ctx context.Context, bookingID string) error {
	if err := s.directory.DeleteBooking(ctx, bookingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("booking %s not found", bookingID)
		}
		return fmt.Errorf("delete booking: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("booking deleted", "booking_id", bookingID)
	}
	return nil
}

// Get retrieves a booking by ID.
func (s *BookingService) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.directory.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("booking %s not found", bookingID)
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// ListForPerson resolves the identifier and returns the person's bookings.
func (s *BookingService) ListForPerson(ctx context.Context, personIdentifier string) ([]*domain.Booking, error) {
	person, err := s.identity.ResolvePerson(ctx, personIdentifier)
	if err != nil {
		return nil, err
	}
	bookings, err := s.directory.ListBookingsByPerson(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListForAmenity returns all bookings of an amenity on a date.
func (s *BookingService) ListForAmenity(ctx context.Context, amenityID, date string) ([]*domain.Booking, error) {
	if !domain.IsDate(date) {
		return nil, domainerrors.Validationf("date %q must be YYYY-MM-DD", date)
	}
	if _, err := s.getAmenity(ctx, amenityID); err != nil {
		return nil, err
	}
	bookings, err := s.directory.ListBookingsForSlot(ctx, amenityID, date)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListForAssociation returns all bookings across an association's amenities.
func (s *BookingService) ListForAssociation(ctx context.Context, associationID string) ([]*domain.Booking, error) {
	if _, err := s.directory.Associations.Get(ctx, associationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("association %s not found", associationID)
		}
		return nil, fmt.Errorf("get association: %w", err)
	}
	bookings, err := s.directory.ListBookingsByAssociation(ctx, associationID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// CheckSlot runs the availability and overlap checks without writing,
// for callers that want to probe a slot before submitting.
func (s *BookingService) CheckSlot(ctx context.Context, amenityID, date, timeStart, timeEnd string) error {
	if err := validateWindow(date, timeStart, timeEnd); err != nil {
		return err
	}
	amenity, err := s.getAmenity(ctx, amenityID)
	if err != nil {
		return err
	}
	if err := checkAvailability(amenity, timeStart, timeEnd); err != nil {
		return err
	}

	conflicts, err := s.directory.FindConflicting(ctx, amenityID, date, timeStart, timeEnd, "")
	if err != nil {
		return fmt.Errorf("scan slot: %w", err)
	}
	if len(conflicts) > 0 {
		return domainerrors.TimeConflict("there is already a booking for this time")
	}
	return nil
}

func (s *BookingService) getAmenity(ctx context.Context, amenityID string) (*domain.Amenity, error) {
	amenity, err := s.directory.Amenities.Get(ctx, amenityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("amenity %s not found", amenityID)
		}
		return nil, fmt.Errorf("get amenity: %w", err)
	}
	return amenity, nil
}

// validateWindow checks the request's date and time formats and ordering.
func validateWindow(date, timeStart, timeEnd string) error {
	if !domain.IsDate(date) {
		return domainerrors.Validationf("date %q must be YYYY-MM-DD", date)
	}
	start, err := domain.ParseClock(timeStart)
	if err != nil {
		return domainerrors.Validationf("time_start %q must be HH:MM", timeStart)
	}
	end, err := domain.ParseClock(timeEnd)
	if err != nil {
		return domainerrors.Validationf("time_end %q must be HH:MM", timeEnd)
	}
	if start >= end {
		return domainerrors.Validation("time_start must be before time_end")
	}
	if date < time.Now().Format("2006-01-02") {
		return domainerrors.Validation("date must not be in the past")
	}
	return nil
}

// checkAvailability verifies the amenity accepts bookings and that the
// window fits its opening hours.
func checkAvailability(amenity *domain.Amenity, timeStart, timeEnd string) error {
	if !amenity.Bookable {
		return domainerrors.NotBookable(fmt.Sprintf("amenity %s does not accept bookings", amenity.Name))
	}
	ok, err := amenity.AllowsWindow(timeStart, timeEnd)
	if err != nil {
		return fmt.Errorf("check amenity hours: %w", err)
	}
	if !ok {
		return domainerrors.OutsideHours(fmt.Sprintf(
			"amenity %s is open %s-%s", amenity.Name, amenity.OpeningTime, amenity.ClosingTime))
	}
	return nil
}
