package model

import (
	"fmt"
	"strings"
	"time"
)

// EventDateLayout is the layout calendar entries use for their date field.
const EventDateLayout = "2006-01-02"

// Event is a calendar entry. Date is kept as entered; DateKey parses it
// for ordering.
type Event struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date string `json:"date"`
}

func (e *Event) GetID() string   { return e.ID }
func (e *Event) SetID(id string) { e.ID = id }

// Validate requires both the event name and its date.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("%w: event name is required", ErrValidation)
	}
	if strings.TrimSpace(e.Date) == "" {
		return fmt.Errorf("%w: event date is required", ErrValidation)
	}
	return nil
}

// Clone returns an independent copy of the event.
func (e *Event) Clone() *Event {
	c := *e
	return &c
}

// DateKey returns the parsed date for sorting. Unparseable dates sort to
// the zero time, keeping malformed entries visible at the top of the list.
func (e *Event) DateKey() time.Time {
	t, err := time.Parse(EventDateLayout, strings.TrimSpace(e.Date))
	if err != nil {
		return time.Time{}
	}
	return t
}

// EventsByDate orders calendar entries ascending by date. Ties keep store
// order; callers use this with a stable sort.
func EventsByDate(a, b *Event) bool {
	return a.DateKey().Before(b.DateKey())
}
