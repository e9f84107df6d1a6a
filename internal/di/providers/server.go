package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/vecindario/vecindario-server/internal/api"
	"github.com/vecindario/vecindario-server/internal/config"
	"github.com/vecindario/vecindario-server/internal/logger"
	"github.com/vecindario/vecindario-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	directory := do.MustInvoke[*DirectoryStoreHandle](i)
	registry := do.MustInvoke[*RegistryStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	authHandle := do.MustInvoke[*AuthServiceHandle](i)

	services := &api.Services{
		Auth:       authHandle.AuthService,
		Identity:   do.MustInvoke[*service.IdentityService](i),
		Person:     do.MustInvoke[*service.PersonService](i),
		Amenity:    do.MustInvoke[*service.AmenityService](i),
		Booking:    do.MustInvoke[*service.BookingService](i),
		Registry:   do.MustInvoke[*service.RegistryService](i),
		Membership: do.MustInvoke[*service.MembershipService](i),
	}

	handler := api.NewServer(directory.Store, registry.Store, services, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
