package domain

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusDone      AppointmentStatus = "done"
	StatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentSource records who created the appointment
type AppointmentSource string

const (
	SourceSelf   AppointmentSource = "self"   // booked by the client through the mini-app
	SourceManual AppointmentSource = "manual" // entered by the master
)

// CancelledBy records which side cancelled the appointment
type CancelledBy string

const (
	CancelledByClient CancelledBy = "client"
	CancelledByMaster CancelledBy = "master"
)

// AppointmentKind distinguishes the two booking variants
type AppointmentKind string

const (
	// KindService appointment for a freely chosen time, optionally tied to a service
	KindService AppointmentKind = "service"
	// KindModelSlot appointment occupying a whole model slot
	KindModelSlot AppointmentKind = "model_slot"
)

// Appointment represents a booked session with the master
type Appointment struct {
	ID        string
	ClientID  string
	MasterID  string
	ServiceID *string
	SlotID    *string // set for model-slot appointments; cleared when the slot is deleted
	Date      time.Time
	StartTime types.TimeString
	Status    AppointmentStatus
	Source    AppointmentSource

	Note              *string
	ReferenceImageURL *string

	ReminderEnabled          bool
	ReminderSentAt           *time.Time
	PreSessionReminderSentAt *time.Time
	FeedbackRequestedAt      *time.Time

	CancellationReason *string
	CancelledBy        *CancelledBy
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kind returns the booking variant of the appointment.
// An appointment referencing a slot was booked as a model session.
func (a *Appointment) Kind() AppointmentKind {
	if a.SlotID != nil {
		return KindModelSlot
	}
	return KindService
}

// IsScheduled returns true if the appointment is still upcoming
func (a *Appointment) IsScheduled() bool {
	return a.Status == StatusScheduled
}

// IsTerminal returns true if the appointment reached a final status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusDone || a.Status == StatusCancelled
}

// CanTransitionTo reports whether the status change is allowed.
// Only scheduled appointments may move, and only to a terminal status.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.Status != StatusScheduled {
		return false
	}
	return next == StatusDone || next == StatusCancelled
}

// StartsAt combines the appointment date and start time into a moment
func (a *Appointment) StartsAt() time.Time {
	minutes := a.StartTime.ToMinutes()
	return time.Date(
		a.Date.Year(), a.Date.Month(), a.Date.Day(),
		minutes/60, minutes%60, 0, 0, a.Date.Location(),
	)
}

// AppointmentFilter defines filtering options for listing appointments
type AppointmentFilter struct {
	MasterID *string
	ClientID *string
	Status   *AppointmentStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// BookedInterval is a projection of a scheduled appointment used by the
// slot expansion engine to subtract occupied time.
type BookedInterval struct {
	AppointmentID          string
	SlotID                 *string
	ServiceID              *string
	StartTime              types.TimeString
	ServiceDurationMinutes *int
}

// DurationMinutes returns the interval length, applying the default
// duration when no service is attached.
func (b *BookedInterval) DurationMinutes() int {
	if b.ServiceDurationMinutes != nil && *b.ServiceDurationMinutes > 0 {
		return *b.ServiceDurationMinutes
	}
	return DefaultServiceDurationMinutes
}

// AppointmentView is an appointment with joined client, service and
// master data for API responses and notifications.
type AppointmentView struct {
	Appointment

	ClientName             string
	ClientTelegramID       *int64
	ClientUsername         *string
	ServiceName            *string
	ServiceDurationMinutes *int
	MasterTelegramID       *int64
}

// EffectiveDurationMinutes returns the session duration for the view
func (v *AppointmentView) EffectiveDurationMinutes() int {
	if v.ServiceDurationMinutes != nil && *v.ServiceDurationMinutes > 0 {
		return *v.ServiceDurationMinutes
	}
	return DefaultServiceDurationMinutes
}

// DueReminder is an appointment selected by the reminder scheduler,
// joined with the contact data needed to send the notification.
type DueReminder struct {
	AppointmentID    string
	ClientID         string
	ClientName       string
	ClientTelegramID *int64
	MasterTelegramID *int64
	ServiceName      *string
	Date             time.Time
	StartTime        types.TimeString
	DrinkOptions     []string
}
