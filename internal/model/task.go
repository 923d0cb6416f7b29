package model

import (
	"fmt"
	"strings"
)

// Task is a device-local task list entry. Tasks never sync to the remote
// store; their IDs are wall-clock timestamps assigned at insert.
type Task struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (t *Task) GetID() string   { return t.ID }
func (t *Task) SetID(id string) { t.ID = id }

// Validate requires non-blank task text.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: task text is required", ErrValidation)
	}
	return nil
}

// Clone returns an independent copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}
