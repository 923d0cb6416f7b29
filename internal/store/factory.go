package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blossomapp/blossom/internal/model"
)

// Backends bundles the stores the app runs on: the synced document store
// (embedded SQLite, or a hosted one when remote_base_url is configured)
// and the device-local key-value store.
type Backends struct {
	// SQLite is the embedded document store. Nil when a remote store
	// is configured.
	SQLite *SQLiteStore

	// Local is the device-local key-value store.
	Local *DiskStore

	owner         model.Identity
	remoteBaseURL string
}

// Open wires the backends described by cfg for the given owner.
func Open(cfg *model.AppConfig, owner model.Identity) (*Backends, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", cfg.Storage.DataDir, err)
	}

	b := &Backends{
		Local:         NewDiskStore(filepath.Join(cfg.Storage.DataDir, "local")),
		owner:         owner,
		remoteBaseURL: cfg.Storage.RemoteBaseURL,
	}

	if b.remoteBaseURL == "" {
		s, err := NewSQLiteStore(filepath.Join(cfg.Storage.DataDir, "blossom.db"))
		if err != nil {
			return nil, err
		}
		b.SQLite = s
	}

	return b, nil
}

// Close releases the embedded store, if one is open.
func (b *Backends) Close() error {
	if b.SQLite != nil {
		return b.SQLite.Close()
	}
	return nil
}

// OpenCollection returns the named synced collection on whichever document
// store the backends were opened with.
func OpenCollection[T model.Record[T]](b *Backends, name string) Collection[T] {
	if b.SQLite != nil {
		return NewDocumentCollection[T](b.SQLite, b.owner, name)
	}
	return NewRemoteCollection[T](b.remoteBaseURL, b.owner, name)
}
