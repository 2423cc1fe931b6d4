package domain

// Slot expansion and booking defaults
const (
	// SlotStepMinutes шаг тиков при разворачивании слота доступности
	// в конкретные времена начала записи.
	SlotStepMinutes = 30

	// DefaultServiceDurationMinutes assumed duration for appointments without a service
	DefaultServiceDurationMinutes = 60
)

// Reminder windows
const (
	// DayAheadWindowHours appointments starting within this many hours
	// receive a day-ahead reminder
	DayAheadWindowHours = 24

	// PreSessionWindowMinMinutes / PreSessionWindowMaxMinutes bound the
	// pre-session reminder window before the appointment start
	PreSessionWindowMinMinutes = 5
	PreSessionWindowMaxMinutes = 10
)

// Reengagement nudges
const (
	// ReengagementNudgeDays days since the last completed visit after which
	// a come-back nudge is due
	ReengagementNudgeDays = 14

	// ReengagementSmartDays days after which the nudge also suggests
	// upcoming free windows
	ReengagementSmartDays = 21

	// ReengagementMinGapHours minimum gap between two nudges to one client
	ReengagementMinGapHours = 23

	// ReengagementSuggestDaysAhead / ReengagementMaxSuggestedSlots bound the
	// slot suggestions in the smart nudge
	ReengagementSuggestDaysAhead  = 14
	ReengagementMaxSuggestedSlots = 5
)

// Business validation constants
const (
	MaxNoteLength               = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DefaultCancellationReason stored when a client cancels without giving a reason
const DefaultCancellationReason = "Не указана"
