package service_test

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vecindario/vecindario-server/internal/domain"
	domainerrors "github.com/vecindario/vecindario-server/internal/errors"
	"github.com/vecindario/vecindario-server/internal/service"
)

type bookingEnv struct {
	*testEnv
	amenities *service.AmenityService
	bookings  *service.BookingService
}

func newBookingEnv(t *testing.T) *bookingEnv {
	t.Helper()
	env := newTestEnv(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	amenities := service.NewAmenityService(env.directory, logger)
	bookings := service.NewBookingService(env.directory, env.identity, logger)
	return &bookingEnv{testEnv: env, amenities: amenities, bookings: bookings}
}

// seedGym creates an association with a bookable gym open 09:00-22:00.
func (e *bookingEnv) seedGym(t *testing.T) *domain.Amenity {
	t.Helper()
	ctx := context.Background()
	assoc, err := e.amenities.CreateAssociation(ctx, service.CreateDirectoryAssociationRequest{
		Name: "Residencial Los Pinos",
		City: "Madrid",
	})
	require.NoError(t, err)
	amenity, err := e.amenities.CreateAmenity(ctx, service.CreateAmenityRequest{
		AssociationID: assoc.ID,
		Name:          "Gimnasio",
		Bookable:      true,
		OpeningTime:   "09:00",
		ClosingTime:   "22:00",
	})
	require.NoError(t, err)
	return amenity
}

func (e *bookingEnv) seedPerson(t *testing.T, email string) *domain.Person {
	t.Helper()
	person, err := e.persons.Register(context.Background(), service.RegisterPersonRequest{
		FirstName: "Test",
		LastName:  "Person",
		Email:     email,
		Password:  "hunter2hunter2",
	})
	require.NoError(t, err)
	return person
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateBooking_StampsOwnership(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "booker@example.com")

	booking, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      futureDate(7),
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, person.ID, booking.PersonID)
	assert.Equal(t, gym.AssociationID, booking.AssociationID)
	assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
}

func TestCreateBooking_WindowEdges(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "edges@example.com")

	tests := []struct {
		name    string
		start   string
		end     string
		wantErr *domainerrors.Error
	}{
		{"at opening", "09:00", "10:00", nil},
		{"ends at closing", "21:00", "22:00", nil},
		{"before opening", "08:30", "09:30", domainerrors.ErrOutsideHours},
		{"past closing", "21:30", "22:30", domainerrors.ErrOutsideHours},
		{"starts at closing", "22:00", "23:00", domainerrors.ErrOutsideHours},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.bookings.Create(ctx, service.CreateBookingRequest{
				Person:    person.ID,
				AmenityID: gym.ID,
				Date:      futureDate(10 + i),
				TimeStart: tt.start,
				TimeEnd:   tt.end,
			})
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, domainerrors.Is(err, tt.wantErr))
			}
		})
	}
}

func TestCreateBooking_NotBookable(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	assoc, err := env.amenities.CreateAssociation(ctx, service.CreateDirectoryAssociationRequest{Name: "Torre Azul"})
	require.NoError(t, err)
	garden, err := env.amenities.CreateAmenity(ctx, service.CreateAmenityRequest{
		AssociationID: assoc.ID,
		Name:          "Jardin",
		Bookable:      false,
		OpeningTime:   "08:00",
		ClosingTime:   "20:00",
	})
	require.NoError(t, err)
	person := env.seedPerson(t, "garden@example.com")

	_, err = env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: garden.ID,
		Date:      futureDate(7),
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotBookable))
}

func TestCreateBooking_TimeConflict(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	first := env.seedPerson(t, "first@example.com")
	second := env.seedPerson(t, "second@example.com")
	date := futureDate(7)

	_, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    first.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "10:00",
		TimeEnd:   "12:00",
	})
	require.NoError(t, err)

	_, err = env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    second.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "11:00",
		TimeEnd:   "13:00",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTimeConflict))

	// Back to back is fine.
	_, err = env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    second.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "12:00",
		TimeEnd:   "13:00",
	})
	require.NoError(t, err)
}

func TestCreateBooking_AmenityNotFound(t *testing.T) {
	env := newBookingEnv(t)
	person := env.seedPerson(t, "lost@example.com")

	_, err := env.bookings.Create(context.Background(), service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: "60d21b4667d0d8992e610c51",
		Date:      futureDate(7),
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCreateBooking_RejectsBadWindows(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "verify@example.com")

	cases := []struct{ date, start, end string }{
		{futureDate(7), "11:00", "10:00"},
		{futureDate(7), "10:00", "10:00"},
		{futureDate(7), "9:00", "10:00"},
		{"not-a-date", "10:00", "11:00"},
		{futureDate(-2), "10:00", "11:00"},
	}
	for _, c := range cases {
		_, err := env.bookings.Create(ctx, service.CreateBookingRequest{
			Person:    person.ID,
			AmenityID: gym.ID,
			Date:      c.date,
			TimeStart: c.start,
			TimeEnd:   c.end,
		})
		require.Error(t, err, "date=%s start=%s end=%s", c.date, c.start, c.end)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	}
}

func TestUpdateBooking_RevalidatesOnSlotChange(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "mover@example.com")
	date := futureDate(7)

	booking, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)

	// Moving outside opening hours fails.
	badStart, badEnd := "22:00", "23:00"
	_, err = env.bookings.Update(ctx, booking.ID, service.UpdateBookingRequest{
		TimeStart: &badStart,
		TimeEnd:   &badEnd,
	})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrOutsideHours))

	// A notes-only change does not re-check availability, even against a
	// stored window that is now contested.
	notes := "bring a towel"
	updated, err := env.bookings.Update(ctx, booking.ID, service.UpdateBookingRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "bring a towel", updated.Notes)
	assert.Equal(t, "10:00", updated.TimeStart)
}

func TestUpdateBooking_ConflictExcludesSelf(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "self@example.com")
	date := futureDate(7)

	booking, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)

	// Extending over its own window is not a conflict.
	newEnd := "12:00"
	updated, err := env.bookings.Update(ctx, booking.ID, service.UpdateBookingRequest{TimeEnd: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "12:00", updated.TimeEnd)
}

func TestCancelBooking_FreesSlot(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "cancel@example.com")
	date := futureDate(7)

	booking, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)

	cancelled, err := env.bookings.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	_, err = env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      date,
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)
}

// TestGymBookingFlow walks the full path a registry resident takes to
// book the gym: the resident exists only in the relational registry, a
// directory person is materialized on first use, and the booking lands
// with the resolved directory IDs.
func TestGymBookingFlow(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	resident := env.seedResident(t, "Marta", "Iglesias", "marta@example.com", "hunter2hunter2")

	booking, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    strconv.FormatInt(resident.ID, 10),
		AmenityID: gym.ID,
		Date:      futureDate(3),
		TimeStart: "18:00",
		TimeEnd:   "19:00",
	})
	require.NoError(t, err)

	person, err := env.identity.ResolvePerson(ctx, "marta@example.com")
	require.NoError(t, err)
	assert.Equal(t, person.ID, booking.PersonID)
	assert.Equal(t, resident.ID, person.RegistryID)
	assert.Equal(t, gym.AssociationID, booking.AssociationID)

	mine, err := env.bookings.ListForPerson(ctx, "marta@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, booking.ID, mine[0].ID)
}

func TestDeleteBooking_FreesSlotAndRecord(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "remove@example.com")

	booking, err := env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      futureDate(4),
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)

	require.NoError(t, env.bookings.Delete(ctx, booking.ID))

	_, err = env.bookings.Get(ctx, booking.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	// The slot books again once the record is gone.
	_, err = env.bookings.Create(ctx, service.CreateBookingRequest{
		Person:    person.ID,
		AmenityID: gym.ID,
		Date:      futureDate(4),
		TimeStart: "10:00",
		TimeEnd:   "11:00",
	})
	require.NoError(t, err)

	err = env.bookings.Delete(ctx, booking.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListBookingsForAssociation(t *testing.T) {
	env := newBookingEnv(t)
	ctx := context.Background()

	gym := env.seedGym(t)
	person := env.seedPerson(t, "lister@example.com")

	for i, window := range [][2]string{{"09:00", "10:00"}, {"10:00", "11:00"}} {
		_, err := env.bookings.Create(ctx, service.CreateBookingRequest{
			Person:    person.ID,
			AmenityID: gym.ID,
			Date:      futureDate(5 + i),
			TimeStart: window[0],
			TimeEnd:   window[1],
		})
		require.NoError(t, err)
	}

	all, err := env.bookings.ListForAssociation(ctx, gym.AssociationID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = env.bookings.ListForAssociation(ctx, "000000000000000000000000")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
