package model

import (
	"fmt"
	"strings"
	"time"
)

// Note is a free-form text note in the user's notes collection.
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n *Note) GetID() string   { return n.ID }
func (n *Note) SetID(id string) { n.ID = id }

// Validate requires non-blank note text.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return fmt.Errorf("%w: note text is required", ErrValidation)
	}
	return nil
}

// Clone returns an independent copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	return &c
}
