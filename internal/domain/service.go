package domain

import "time"

// Service represents a bookable service offered by the master
type Service struct {
	ID              string
	MasterID        string
	Name            string
	Description     *string
	DurationMinutes int
	Price           *float64
	ForModels       bool // services reserved for model sessions are hidden from free-choice booking
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DurationOrDefault returns the service duration, falling back to the
// default when the stored value is not positive.
func (s *Service) DurationOrDefault() int {
	if s.DurationMinutes > 0 {
		return s.DurationMinutes
	}
	return DefaultServiceDurationMinutes
}

// ServiceFilter defines filtering options for listing services
type ServiceFilter struct {
	MasterID   *string
	ForModels  *bool
	ActiveOnly bool
}
