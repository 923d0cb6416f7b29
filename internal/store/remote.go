package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/blossomapp/blossom/internal/model"
)

// requestTimeout is the maximum time allowed for a single store call.
const requestTimeout = 30 * time.Second

// RemoteCollection is a Collection served by a hosted document store over
// HTTP. The API is document-shaped:
//
//	GET    /users/{owner}/{collection}        -> [{"id": ..., ...}, ...]
//	POST   /users/{owner}/{collection}        -> {"id": ...}
//	PUT    /users/{owner}/{collection}/{id}
//	DELETE /users/{owner}/{collection}/{id}
type RemoteCollection[T model.Record[T]] struct {
	client *resty.Client
	owner  model.Identity
	name   string
}

// insertResponse carries the id assigned by the remote store.
type insertResponse struct {
	ID string `json:"id"`
}

// NewRemoteCollection opens the named collection for the given owner
// against the document API rooted at baseURL.
func NewRemoteCollection[T model.Record[T]](
	baseURL string,
	owner model.Identity,
	name string,
) *RemoteCollection[T] {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(requestTimeout)

	return &RemoteCollection[T]{client: c, owner: owner, name: name}
}

func (c *RemoteCollection[T]) collectionPath() string {
	return fmt.Sprintf("/users/%s/%s", c.owner.String(), c.name)
}

func (c *RemoteCollection[T]) documentPath(id string) string {
	return c.collectionPath() + "/" + id
}

// FetchAll returns every document in the collection in store order.
func (c *RemoteCollection[T]) FetchAll(ctx context.Context) ([]T, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		Get(c.collectionPath())
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", c.name, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", c.name, resp.Status())
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(resp.Body(), &docs); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", c.name, err)
	}

	out := []T{}
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("decoding %s document: %w", c.name, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Insert adds a new document and returns the id the store assigned.
func (c *RemoteCollection[T]) Insert(ctx context.Context, rec T) (string, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(rec).
		Post(c.collectionPath())
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", c.name, err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("inserting into %s: unexpected status %s", c.name, resp.Status())
	}

	// Decode the body directly rather than relying on the store to label
	// the response with a JSON Content-Type.
	var assigned insertResponse
	if err := json.Unmarshal(resp.Body(), &assigned); err != nil {
		return "", fmt.Errorf("decoding %s insert response: %w", c.name, err)
	}
	if assigned.ID == "" {
		return "", fmt.Errorf("inserting into %s: store returned no id", c.name)
	}

	return assigned.ID, nil
}

// Replace overwrites the document with the given id.
func (c *RemoteCollection[T]) Replace(ctx context.Context, id string, rec T) error {
	stamped := rec.Clone()
	stamped.SetID(id)

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(stamped).
		Put(c.documentPath(id))
	if err != nil {
		return fmt.Errorf("replacing %s document %s: %w", c.name, id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s document %s: %w", c.name, id, model.ErrNotFound)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("replacing %s document %s: unexpected status %s", c.name, id, resp.Status())
	}
	return nil
}

// Remove deletes the document with the given id.
func (c *RemoteCollection[T]) Remove(ctx context.Context, id string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Delete(c.documentPath(id))
	if err != nil {
		return fmt.Errorf("removing %s document %s: %w", c.name, id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%s document %s: %w", c.name, id, model.ErrNotFound)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("removing %s document %s: unexpected status %s", c.name, id, resp.Status())
	}
	return nil
}
