// Package factory builds storage backends from configuration. It lives
// apart from the storage interface package so implementations can import
// that package for the Backend contract without a cycle.
package factory

import (
	"fmt"

	"github.com/diamondsim/playres/internal/config"
	"github.com/diamondsim/playres/internal/storage"
	gormstorage "github.com/diamondsim/playres/internal/storage/gorm"
	"github.com/diamondsim/playres/internal/storage/memory"
	"gorm.io/gorm"
)

// NewBackend creates a storage backend based on configuration. The
// postgres and sqlite types share the gorm backend; the caller supplies
// the connected DB for them. dbInsertsPaused may be nil; when set it
// suspends the gorm backend's batch drains during sqlite disk dumps.
func NewBackend(cfg config.StorageConfig, db *gorm.DB, dbInsertsPaused func() bool) (storage.Backend, error) {
	switch cfg.Type {
	case "postgres", "sqlite":
		if db == nil {
			return nil, fmt.Errorf("storage type %q requires a database connection", cfg.Type)
		}
		return gormstorage.New(gormstorage.Dependencies{DB: db, DBInsertsPaused: dbInsertsPaused}), nil
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
