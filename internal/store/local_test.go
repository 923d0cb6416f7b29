package store

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blossomapp/blossom/internal/model"
)

func TestDiskStoreGetAbsent(t *testing.T) {
	kv := NewDiskStore(t.TempDir())

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDiskStoreRoundTrip(t *testing.T) {
	kv := NewDiskStore(t.TempDir())

	require.NoError(t, kv.Set("greeting", []byte("hello")))
	val, ok, err := kv.Get("greeting")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), val)
}

func TestLocalCollectionEmptyWhenNeverSaved(t *testing.T) {
	kv := NewDiskStore(t.TempDir())
	tasks := NewLocalCollection[*model.Task](kv, "tasks")

	recs, err := tasks.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestLocalCollectionTimestampIDs(t *testing.T) {
	kv := NewDiskStore(t.TempDir())
	tasks := NewLocalCollection[*model.Task](kv, "tasks")
	// Freeze the clock so both inserts land in the same millisecond.
	fixed := time.UnixMilli(1700000000000)
	tasks.now = func() time.Time { return fixed }
	ctx := context.Background()

	id1, err := tasks.Insert(ctx, &model.Task{Text: "one"})
	require.NoError(t, err)
	id2, err := tasks.Insert(ctx, &model.Task{Text: "two"})
	require.NoError(t, err)

	assert.Equal(t, strconv.FormatInt(fixed.UnixMilli(), 10), id1)
	assert.NotEqual(t, id1, id2, "same-tick inserts still get unique ids")
}

func TestLocalCollectionReplaceAndRemove(t *testing.T) {
	kv := NewDiskStore(t.TempDir())
	tasks := NewLocalCollection[*model.Task](kv, "tasks")
	ctx := context.Background()

	id1, err := tasks.Insert(ctx, &model.Task{Text: "one"})
	require.NoError(t, err)
	id2, err := tasks.Insert(ctx, &model.Task{Text: "two"})
	require.NoError(t, err)

	require.NoError(t, tasks.Replace(ctx, id1, &model.Task{Text: "uno"}))
	require.NoError(t, tasks.Remove(ctx, id2))

	recs, err := tasks.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, id1, recs[0].ID)
	assert.Equal(t, "uno", recs[0].Text)

	require.ErrorIs(t, tasks.Replace(ctx, id2, &model.Task{Text: "x"}), model.ErrNotFound)
	require.ErrorIs(t, tasks.Remove(ctx, id2), model.ErrNotFound)
}

func TestLocalCollectionSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first := NewLocalCollection[*model.Task](NewDiskStore(dir), "tasks")
	_, err := first.Insert(ctx, &model.Task{Text: "persisted"})
	require.NoError(t, err)

	reopened := NewLocalCollection[*model.Task](NewDiskStore(dir), "tasks")
	recs, err := reopened.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "persisted", recs[0].Text)
}
