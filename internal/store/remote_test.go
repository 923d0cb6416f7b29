package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	gosync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blossomapp/blossom/internal/model"
)

// docServer is a minimal in-memory document API matching the routes
// RemoteCollection speaks.
type docServer struct {
	mu     gosync.Mutex
	nextID int
	docs   map[string][]map[string]any // path -> ordered documents
}

func newDocServer() *docServer {
	return &docServer{docs: make(map[string][]map[string]any)}
}

func (s *docServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// /users/{owner}/{collection}[/{id}]
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "users" {
		http.NotFound(w, r)
		return
	}
	collPath := strings.Join(parts[:3], "/")

	switch {
	case r.Method == http.MethodGet && len(parts) == 3:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.docs[collPath])

	case r.Method == http.MethodPost && len(parts) == 3:
		var doc map[string]any
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.nextID++
		id := fmt.Sprintf("r-%d", s.nextID)
		doc["id"] = id
		s.docs[collPath] = append(s.docs[collPath], doc)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})

	case (r.Method == http.MethodPut || r.Method == http.MethodDelete) && len(parts) == 4:
		id := parts[3]
		for i, doc := range s.docs[collPath] {
			if doc["id"] == id {
				if r.Method == http.MethodDelete {
					s.docs[collPath] = append(s.docs[collPath][:i], s.docs[collPath][i+1:]...)
					w.WriteHeader(http.StatusNoContent)
					return
				}
				var updated map[string]any
				if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				updated["id"] = id
				s.docs[collPath][i] = updated
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)

	default:
		http.NotFound(w, r)
	}
}

func TestRemoteCollectionRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newDocServer())
	t.Cleanup(srv.Close)

	coll := NewRemoteCollection[*model.Event](srv.URL, "user-1", model.CollectionEvents)
	ctx := context.Background()

	id, err := coll.Insert(ctx, &model.Event{Text: "Dentist", Date: "2026-09-20"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	recs, err := coll.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, id, recs[0].ID)
	assert.Equal(t, "Dentist", recs[0].Text)

	require.NoError(t, coll.Replace(ctx, id, &model.Event{Text: "Dentist", Date: "2026-09-21"}))
	recs, err = coll.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "2026-09-21", recs[0].Date)

	require.NoError(t, coll.Remove(ctx, id))
	recs, err = coll.FetchAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRemoteCollectionInsertWithoutContentType(t *testing.T) {
	// Some stores return valid JSON without labeling it; Go sniffs such
	// bodies as text/plain. The assigned id must still come through.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"r-1"}`))
	}))
	t.Cleanup(srv.Close)

	coll := NewRemoteCollection[*model.Event](srv.URL, "user-1", model.CollectionEvents)

	id, err := coll.Insert(context.Background(), &model.Event{Text: "Dentist", Date: "2026-09-20"})
	require.NoError(t, err)
	assert.Equal(t, "r-1", id)
}

func TestRemoteCollectionNotFound(t *testing.T) {
	srv := httptest.NewServer(newDocServer())
	t.Cleanup(srv.Close)

	coll := NewRemoteCollection[*model.Event](srv.URL, "user-1", model.CollectionEvents)
	ctx := context.Background()

	err := coll.Replace(ctx, "missing", &model.Event{Text: "x", Date: "2026-01-01"})
	require.ErrorIs(t, err, model.ErrNotFound)
	require.ErrorIs(t, coll.Remove(ctx, "missing"), model.ErrNotFound)
}

func TestRemoteCollectionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	coll := NewRemoteCollection[*model.Event](srv.URL, "user-1", model.CollectionEvents)

	_, err := coll.FetchAll(context.Background())
	require.Error(t, err)
	_, err = coll.Insert(context.Background(), &model.Event{Text: "x", Date: "2026-01-01"})
	require.Error(t, err)
}
