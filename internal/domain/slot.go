package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AvailabilitySlot represents a window of the master's working time on a
// specific date. Free-choice slots are expanded into 30-minute ticks;
// model slots are booked as a whole.
type AvailabilitySlot struct {
	ID            string
	MasterID      string
	Date          time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	IsAvailable   bool
	ForModels     bool
	ServiceID     *string  // set for model slots: the service performed in this slot
	PriceModifier *float64 // signed price adjustment in rubles; negative means a discount
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasDiscount returns true if the slot is announced at a reduced price
func (s *AvailabilitySlot) HasDiscount() bool {
	return s.PriceModifier != nil && *s.PriceModifier < 0
}

// Overlaps reports whether two slots intersect, treating intervals as
// half-open: touching boundaries do not overlap.
func (s *AvailabilitySlot) Overlaps(other *AvailabilitySlot) bool {
	return types.IntervalsOverlap(
		s.StartTime.ToMinutes(), s.EndTime.ToMinutes(),
		other.StartTime.ToMinutes(), other.EndTime.ToMinutes(),
	)
}

// SlotFilter defines filtering options for listing availability slots
type SlotFilter struct {
	MasterID      *string
	DateFrom      *time.Time
	DateTo        *time.Time
	ForModels     *bool
	AvailableOnly bool
}
