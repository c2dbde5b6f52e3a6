package domain

import (
	"time"

	"github.com/google/uuid"
)

// Plan is a membership type: a named, optionally priced template that defines
// a duration and a set of benefits.
type Plan struct {
	ID           uuid.UUID
	Name         string
	DurationDays int
	Price        *float64
	Benefits     []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the fields that must hold before a plan is written.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", "is required")
	}
	if p.DurationDays < 1 {
		return NewValidationError("duration_days", "must be at least 1")
	}
	if p.Price != nil && *p.Price < 0 {
		return NewValidationError("price", "must not be negative")
	}
	return nil
}
