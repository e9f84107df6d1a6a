package api

import (
	"github.com/vecindario/vecindario-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth       *service.AuthService
	Identity   *service.IdentityService
	Person     *service.PersonService
	Amenity    *service.AmenityService
	Booking    *service.BookingService
	Registry   *service.RegistryService
	Membership *service.MembershipService
}
