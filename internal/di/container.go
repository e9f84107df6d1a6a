// Package di provides dependency injection configuration for the
// Vecindario server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/vecindario/vecindario-server/internal/auth"
	"github.com/vecindario/vecindario-server/internal/config"
	"github.com/vecindario/vecindario-server/internal/di/providers"
	"github.com/vecindario/vecindario-server/internal/logger"
	"github.com/vecindario/vecindario-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Stores
	do.Provide(injector, providers.ProvideDirectoryStore)
	do.Provide(injector, providers.ProvideRegistryStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideIdentityService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePersonService)
	do.Provide(injector, providers.ProvideAmenityService)
	do.Provide(injector, providers.ProvideBookingService)
	do.Provide(injector, providers.ProvideRegistryService)
	do.Provide(injector, providers.ProvideMembershipService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once every provider has
// been invoked. This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.DirectoryStoreHandle](injector)
	_ = do.MustInvoke[*providers.RegistryStoreHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.IdentityService](injector)
	_ = do.MustInvoke[*providers.AuthServiceHandle](injector)
	_ = do.MustInvoke[*service.PersonService](injector)
	_ = do.MustInvoke[*service.AmenityService](injector)
	_ = do.MustInvoke[*service.BookingService](injector)
	_ = do.MustInvoke[*service.RegistryService](injector)
	_ = do.MustInvoke[*service.MembershipService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
