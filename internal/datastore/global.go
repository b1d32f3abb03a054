package datastore

import (
	"fmt"
	"os"
	"sync"

	"github.com/devflow/devflow/internal/contract"
	"github.com/devflow/devflow/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores opens the configured backend once and installs it in Manager.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			backend = schema.SQLiteBackend
		}
		store, err := NewStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize %s store: %w", backend, err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.activity = store
		Manager.insight = store
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.activity != nil {
			if err := Manager.activity.Close(); err != nil {
				contract.LogWarn("Failed to close store", err)
			}
		}
		Manager.activity = nil
		Manager.insight = nil
	})
}

// ClearStore wipes all devflow data for the backend.
// For SQLite, it deletes the database file.
// For MySQL/PostgreSQL, it rolls every migration back.
// For NoneBackend, it does nothing.
func ClearStore(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return MigrateStore(backend, connStr, 0)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}
