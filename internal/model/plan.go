package model

import (
	"fmt"
	"strings"
	"time"
)

// Plan is one entry in the daily planner: an activity and the time of day
// it is planned for (free text, e.g. "9:00 AM").
type Plan struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p *Plan) GetID() string   { return p.ID }
func (p *Plan) SetID(id string) { p.ID = id }

// Validate requires both the activity and its time slot.
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return fmt.Errorf("%w: plan activity is required", ErrValidation)
	}
	if strings.TrimSpace(p.Time) == "" {
		return fmt.Errorf("%w: plan time is required", ErrValidation)
	}
	return nil
}

// Clone returns an independent copy of the plan.
func (p *Plan) Clone() *Plan {
	c := *p
	return &c
}
