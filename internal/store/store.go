package store

import (
	"context"

	"github.com/blossomapp/blossom/internal/model"
)

// Collection is the asynchronous record collection every screen's data
// logic is written against. Implementations are scoped to the owner
// identity and collection name they were opened with; callers never pass
// either per call.
//
// The in-memory copy held by a controller is a cache of this source of
// truth and may go stale between FetchAll calls.
type Collection[T model.Record[T]] interface {
	// FetchAll returns the full current contents of the collection.
	FetchAll(ctx context.Context) ([]T, error)

	// Insert adds a new record and returns its assigned id. The id on
	// the passed record is ignored.
	Insert(ctx context.Context, rec T) (string, error)

	// Replace overwrites the record with the given id. Returns
	// model.ErrNotFound if no such record exists.
	Replace(ctx context.Context, id string, rec T) error

	// Remove deletes the record with the given id. Returns
	// model.ErrNotFound if no such record exists.
	Remove(ctx context.Context, id string) error
}

// KeyValueStore is the device-local storage contract for data that never
// syncs (the offline task list, the profile blob).
type KeyValueStore interface {
	// Get returns the value for key, reporting absence via ok=false
	// rather than an error.
	Get(key string) (value []byte, ok bool, err error)

	// Set writes the value for key, overwriting any previous value.
	Set(key string, value []byte) error
}
