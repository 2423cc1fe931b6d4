package reminders

import "errors"

var (
	// ErrInvalidSchedule возвращается при некорректном cron-расписании
	ErrInvalidSchedule = errors.New("reminders: invalid schedule")
)
