package model

import (
	"fmt"
	"strings"
	"time"
)

// FocusSession is the durable record of one completed focus countdown.
// Records are append-only: the engine creates exactly one per completion
// and never mutates or deletes them.
type FocusSession struct {
	ID string `json:"id"`

	// Duration is the configured session length as a display label,
	// e.g. "25m".
	Duration string `json:"duration"`

	// CompletedAt is when the countdown reached zero.
	CompletedAt time.Time `json:"completedAt"`
}

func (s *FocusSession) GetID() string   { return s.ID }
func (s *FocusSession) SetID(id string) { s.ID = id }

// Validate requires the duration label.
func (s *FocusSession) Validate() error {
	if strings.TrimSpace(s.Duration) == "" {
		return fmt.Errorf("%w: session duration is required", ErrValidation)
	}
	return nil
}

// Clone returns an independent copy of the session record.
func (s *FocusSession) Clone() *FocusSession {
	c := *s
	return &c
}
