package providers

import (
	"github.com/samber/do/v2"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/logger"
	"github.com/vecindario/vecindario-server/internal/service"
)

// ProvideIdentityService provides the cross-store identity resolver.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	directory := do.MustInvoke[*DirectoryStoreHandle](i)
	registry := do.MustInvoke[*RegistryStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIdentityService(directory.Store, registry.Store, log.Logger), nil
}

// AuthServiceHandle wraps the auth service so its rate limiter stops on
// shutdown.
type AuthServiceHandle struct {
	*service.AuthService
}

// Shutdown implements do.Shutdownable.
func (h *AuthServiceHandle) Shutdown() error {
	h.AuthService.Close()
	return nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*AuthServiceHandle, error) {
	identity := do.MustInvoke[*service.IdentityService](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return &AuthServiceHandle{
		AuthService: service.NewAuthService(identity, tokens, log.Logger),
	}, nil
}

// ProvidePersonService provides the directory person service.
func ProvidePersonService(i do.Injector) (*service.PersonService, error) {
	directory := do.MustInvoke[*DirectoryStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPersonService(directory.Store, log.Logger), nil
}

// ProvideAmenityService provides the association and amenity service.
func ProvideAmenityService(i do.Injector) (*service.AmenityService, error) {
	directory := do.MustInvoke[*DirectoryStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAmenityService(directory.Store, log.Logger), nil
}

// ProvideBookingService provides the booking admission service.
func ProvideBookingService(i do.Injector) (*service.BookingService, error) {
	directory := do.MustInvoke[*DirectoryStoreHandle](i)
	identity := do.MustInvoke[*service.IdentityService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookingService(directory.Store, identity, log.Logger), nil
}

// ProvideRegistryService provides the registry CRUD service.
func ProvideRegistryService(i do.Injector) (*service.RegistryService, error) {
	registry := do.MustInvoke[*RegistryStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRegistryService(registry.Store, log.Logger), nil
}

// ProvideMembershipService provides the membership consistency service.
func ProvideMembershipService(i do.Injector) (*service.MembershipService, error) {
	registry := do.MustInvoke[*RegistryStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMembershipService(registry.Store, log.Logger), nil
}
