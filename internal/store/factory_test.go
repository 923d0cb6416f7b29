package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blossomapp/blossom/internal/model"
)

func TestOpenDefaultsToEmbeddedStore(t *testing.T) {
	cfg := &model.AppConfig{Storage: model.StorageConfig{DataDir: t.TempDir()}}

	b, err := Open(cfg, "user-1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	require.NotNil(t, b.SQLite)

	notes := OpenCollection[*model.Note](b, model.CollectionNotes)
	_, ok := notes.(*DocumentCollection[*model.Note])
	assert.True(t, ok)

	// The embedded store is usable straight away.
	_, err = notes.Insert(context.Background(), &model.Note{Text: "Buy milk"})
	require.NoError(t, err)
}

func TestOpenWithRemoteBaseURL(t *testing.T) {
	cfg := &model.AppConfig{Storage: model.StorageConfig{
		DataDir:       t.TempDir(),
		RemoteBaseURL: "https://store.example.com",
	}}

	b, err := Open(cfg, "user-1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	assert.Nil(t, b.SQLite, "no embedded store when a remote one is configured")

	notes := OpenCollection[*model.Note](b, model.CollectionNotes)
	_, ok := notes.(*RemoteCollection[*model.Note])
	assert.True(t, ok)
}
