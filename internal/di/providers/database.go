package providers

import (
	"github.com/samber/do/v2"

	"github.com/vecindario/vecindario-server/internal/config"
	"github.com/vecindario/vecindario-server/internal/logger"
	"github.com/vecindario/vecindario-server/internal/store"
	"github.com/vecindario/vecindario-server/internal/store/sqlite"
)

// DirectoryStoreHandle wraps the directory store with shutdown capability.
type DirectoryStoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *DirectoryStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideDirectoryStore provides the Badger-backed directory store.
func ProvideDirectoryStore(i do.Injector) (*DirectoryStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := store.New(cfg.Data.DirectoryPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	return &DirectoryStoreHandle{Store: st}, nil
}

// RegistryStoreHandle wraps the registry store with shutdown capability.
type RegistryStoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *RegistryStoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideRegistryStore provides the SQLite-backed registry store.
func ProvideRegistryStore(i do.Injector) (*RegistryStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := sqlite.Open(cfg.Data.RegistryPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	return &RegistryStoreHandle{Store: st}, nil
}
