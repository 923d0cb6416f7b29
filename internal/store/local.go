package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	gosync "sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/blossomapp/blossom/internal/model"
)

// DiskStore is a KeyValueStore backed by diskv, the device-local storage
// for data that never leaves the device.
type DiskStore struct {
	d *diskv.Diskv
}

// NewDiskStore opens (or creates) a diskv store rooted at basePath.
func NewDiskStore(basePath string) *DiskStore {
	flatTransform := func(key string) []string { return []string{} }
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

// Get returns the value for key, reporting absence via ok=false.
func (s *DiskStore) Get(key string) ([]byte, bool, error) {
	val, err := s.d.Read(key)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return val, true, nil
}

// Set writes the value for key.
func (s *DiskStore) Set(key string, value []byte) error {
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// LocalCollection is a Collection kept entirely on the device: the whole
// list is stored as one JSON array under a single key, matching how the
// offline task list has always been saved. IDs are wall-clock timestamps
// assigned at insert.
type LocalCollection[T model.Record[T]] struct {
	kv  KeyValueStore
	key string

	mu  gosync.Mutex
	now func() time.Time
}

// NewLocalCollection opens the local collection stored under key.
func NewLocalCollection[T model.Record[T]](kv KeyValueStore, key string) *LocalCollection[T] {
	return &LocalCollection[T]{kv: kv, key: key, now: time.Now}
}

func (c *LocalCollection[T]) read() ([]T, error) {
	raw, ok, err := c.kv.Get(c.key)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var recs []T
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", c.key, err)
	}
	return recs, nil
}

func (c *LocalCollection[T]) write(recs []T) error {
	raw, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.key, err)
	}
	if err := c.kv.Set(c.key, raw); err != nil {
		return fmt.Errorf("saving %s: %w", c.key, err)
	}
	return nil
}

// FetchAll returns the stored list in insertion order.
func (c *LocalCollection[T]) FetchAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

// Insert appends a new record with a timestamp id and returns the id.
func (c *LocalCollection[T]) Insert(ctx context.Context, rec T) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.read()
	if err != nil {
		return "", err
	}

	// Bump the millisecond until the id is unique; two inserts within
	// the same tick would otherwise collide.
	ms := c.now().UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for c.contains(recs, id) {
		ms++
		id = strconv.FormatInt(ms, 10)
	}

	stamped := rec.Clone()
	stamped.SetID(id)
	recs = append(recs, stamped)

	if err := c.write(recs); err != nil {
		return "", err
	}
	return id, nil
}

// Replace overwrites the record with the given id in place.
func (c *LocalCollection[T]) Replace(ctx context.Context, id string, rec T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.read()
	if err != nil {
		return err
	}

	for i, r := range recs {
		if r.GetID() == id {
			stamped := rec.Clone()
			stamped.SetID(id)
			recs[i] = stamped
			return c.write(recs)
		}
	}
	return fmt.Errorf("%s record %s: %w", c.key, id, model.ErrNotFound)
}

// Remove deletes the record with the given id, preserving order.
func (c *LocalCollection[T]) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.read()
	if err != nil {
		return err
	}

	for i, r := range recs {
		if r.GetID() == id {
			recs = append(recs[:i], recs[i+1:]...)
			return c.write(recs)
		}
	}
	return fmt.Errorf("%s record %s: %w", c.key, id, model.ErrNotFound)
}

func (c *LocalCollection[T]) contains(recs []T, id string) bool {
	for _, r := range recs {
		if r.GetID() == id {
			return true
		}
	}
	return false
}
