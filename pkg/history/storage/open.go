package storage

import (
	"fmt"

	"mercator-hq/odrlcheck/pkg/config"
	"mercator-hq/odrlcheck/pkg/history"
)

// Open creates the backend selected by cfg.Backend.
func Open(cfg *config.HistoryConfig) (history.Storage, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStorage(cfg.MaxMemoryRecords), nil
	case "sqlite", "":
		return NewSQLiteStorage(&SQLiteConfig{
			Path:         cfg.SQLite.Path,
			Driver:       cfg.SQLite.Driver,
			MaxOpenConns: cfg.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.SQLite.MaxIdleConns,
			WALMode:      cfg.SQLite.WALMode,
			BusyTimeout:  cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, history.NewStorageError(cfg.Backend, "open", fmt.Errorf("unknown backend %q", cfg.Backend))
	}
}
