// Package sync keeps each screen's in-memory record list in step with its
// backing collection. Every mutation goes through the store first and is
// made visible by a full reload; the in-memory list is never patched in
// place, so it can be stale but never diverges from what the store held at
// the last reload.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	gosync "sync"

	"github.com/rs/zerolog"

	"github.com/blossomapp/blossom/internal/model"
	"github.com/blossomapp/blossom/internal/store"
)

// Option configures a Controller.
type Option[T model.Record[T]] func(*Controller[T])

// WithLess sets the ordering applied to the in-memory list after each
// load. The sort is stable, so ties keep store order.
func WithLess[T model.Record[T]](less func(a, b T) bool) Option[T] {
	return func(c *Controller[T]) { c.less = less }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger[T model.Record[T]](log zerolog.Logger) Option[T] {
	return func(c *Controller[T]) { c.log = log }
}

// WithConfirm gates Delete behind a confirmation step. Returning false
// cancels the delete before any store call.
func WithConfirm[T model.Record[T]](confirm func() bool) Option[T] {
	return func(c *Controller[T]) { c.confirm = confirm }
}

// Controller mediates between one screen and one collection. A controller
// owns its in-memory list exclusively; screens share nothing.
//
// At most one record is under edit at a time. The edit session is
// independent of reloads: a Load never clears unsaved working fields.
type Controller[T model.Record[T]] struct {
	name    string
	coll    store.Collection[T]
	user    model.Identity
	log     zerolog.Logger
	less    func(a, b T) bool
	confirm func() bool

	mu      gosync.Mutex
	items   []T
	editID  string
	working T

	// Reload sequencing: responses older than the last applied reload
	// are discarded, so overlapping reloads resolve to the newest one.
	loadSeq    uint64
	appliedSeq uint64
}

// New creates a controller for the named collection. A zero user identity
// turns every store-backed method into a no-op, so signed-out screens stay
// inert without error handling. Device-scoped collections such as the
// offline task list are owned by model.DeviceIdentity, not by a signed-in
// user; pass that identity so they keep working while signed out.
func New[T model.Record[T]](
	name string,
	coll store.Collection[T],
	user model.Identity,
	opts ...Option[T],
) *Controller[T] {
	c := &Controller[T]{
		name: name,
		coll: coll,
		user: user,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// storeErr classifies a failed store call as recoverable unavailability
// while keeping the cause in the chain.
func storeErr(op, name string, err error) error {
	return fmt.Errorf("%s %s: %w", op, name, errors.Join(model.ErrStoreUnavailable, err))
}

// Load fetches the full collection and replaces the in-memory list
// wholesale. On failure the list is left unchanged, stale but consistent.
func (c *Controller[T]) Load(ctx context.Context) error {
	if c.user.IsZero() {
		return nil
	}

	c.mu.Lock()
	c.loadSeq++
	seq := c.loadSeq
	c.mu.Unlock()

	recs, err := c.coll.FetchAll(ctx)
	if err != nil {
		c.log.Error().Err(err).Str("collection", c.name).Msg("load failed")
		return storeErr("loading", c.name, err)
	}

	if c.less != nil {
		sort.SliceStable(recs, func(i, j int) bool { return c.less(recs[i], recs[j]) })
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq < c.appliedSeq {
		// A newer reload already landed; drop this response.
		return nil
	}
	c.appliedSeq = seq
	c.items = recs
	return nil
}

// Create validates rec, inserts it, and reloads. No optimistic insert: the
// authoritative list is always re-fetched after the mutation. Create does
// not touch an active edit session; the two are independent.
func (c *Controller[T]) Create(ctx context.Context, rec T) error {
	if c.user.IsZero() {
		return nil
	}

	if err := rec.Validate(); err != nil {
		return err
	}

	id, err := c.coll.Insert(ctx, rec)
	if err != nil {
		c.log.Error().Err(err).Str("collection", c.name).Msg("create failed")
		return storeErr("creating in", c.name, err)
	}
	c.log.Debug().Str("collection", c.name).Str("id", id).Msg("record created")

	return c.Load(ctx)
}

// Update commits the pending edit. It requires an active edit session
// targeting rec's id; on success the session is cleared and the list
// reloaded, on store failure the session and its working fields survive so
// the user can retry.
func (c *Controller[T]) Update(ctx context.Context, rec T) error {
	if c.user.IsZero() {
		return nil
	}

	id := rec.GetID()

	c.mu.Lock()
	active := c.editID
	c.mu.Unlock()
	if active == "" || active != id {
		return fmt.Errorf("updating %s: no active edit session for id %q", c.name, id)
	}

	if err := rec.Validate(); err != nil {
		return err
	}

	if err := c.coll.Replace(ctx, id, rec); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Target vanished under a concurrent change. Not fatal:
			// drop the edit and resynchronize.
			c.CancelEdit()
			return c.Load(ctx)
		}
		c.log.Error().Err(err).Str("collection", c.name).Str("id", id).Msg("update failed")
		return storeErr("updating", c.name, err)
	}

	c.CancelEdit()
	return c.Load(ctx)
}

// Delete removes the record with the given id and reloads. An id absent
// from the in-memory list is a no-op. The delete is not applied
// optimistically: on store failure the list is unchanged.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if c.user.IsZero() {
		return nil
	}

	if _, ok := c.find(id); !ok {
		return nil
	}

	if c.confirm != nil && !c.confirm() {
		return nil
	}

	if err := c.coll.Remove(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Already gone remotely; just resynchronize.
			return c.Load(ctx)
		}
		c.log.Error().Err(err).Str("collection", c.name).Str("id", id).Msg("delete failed")
		return storeErr("deleting from", c.name, err)
	}

	return c.Load(ctx)
}

// BeginEdit copies the target record's fields into working state and marks
// id as the active edit target. It reports false, without side effects,
// when id is not in the in-memory list.
func (c *Controller[T]) BeginEdit(id string) bool {
	rec, ok := c.find(id)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.editID = id
	c.working = rec.Clone()
	return true
}

// CancelEdit discards the working fields and clears the edit target. It
// never touches the store.
func (c *Controller[T]) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.editID = ""
	c.working = zero
}

// Editing returns the id under edit, or "" when idle.
func (c *Controller[T]) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editID
}

// Working returns the edit session's working copy, if a session is active.
func (c *Controller[T]) Working() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editID == "" {
		var zero T
		return zero, false
	}
	return c.working, true
}

// Items returns a snapshot of the in-memory list.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller[T]) find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, rec := range c.items {
		if rec.GetID() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}
