package domain

import "github.com/m04kA/SMC-AppointmentService/pkg/types"

// FreeWindow represents a concrete bookable start time produced by
// expanding an availability slot.
type FreeWindow struct {
	SlotID          string
	StartTime       types.TimeString
	DurationMinutes int
	PriceModifier   *float64
}

// ModelSlotOffer represents a whole model slot offered for booking
type ModelSlotOffer struct {
	SlotID      string
	Date        string
	StartTime   types.TimeString
	EndTime     types.TimeString
	ServiceID   string
	ServiceName string
}
