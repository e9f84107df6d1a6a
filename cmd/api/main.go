// Package main provides the entry point for the Vecindario server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/vecindario/vecindario-server/internal/di"
	"github.com/vecindario/vecindario-server/internal/di/providers"
	"github.com/vecindario/vecindario-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Shutdown all services in reverse order
	// The DI container handles shutdown order automatically
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	// Stores use wrapper types, so close them explicitly
	if directory, err := do.Invoke[*providers.DirectoryStoreHandle](injector); err == nil {
		if err := directory.Shutdown(); err != nil {
			log.Error("Failed to close directory store", "error", err)
		}
	}
	if registry, err := do.Invoke[*providers.RegistryStoreHandle](injector); err == nil {
		if err := registry.Shutdown(); err != nil {
			log.Error("Failed to close registry store", "error", err)
		}
	}

	log.Info("Server stopped")
}
