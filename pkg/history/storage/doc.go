// Package storage provides history.Storage backends.
//
// MemoryStorage keeps a bounded number of records in process memory.
// SQLiteStorage persists records in a single table and works with either the
// pure-Go modernc.org/sqlite driver ("sqlite") or github.com/mattn/go-sqlite3
// ("sqlite3"). Open picks the backend from configuration:
//
//	store, err := storage.Open(&cfg.History)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
package storage
