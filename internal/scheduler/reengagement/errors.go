package reengagement

import "errors"

var (
	// ErrInvalidSchedule возвращается при некорректном cron-расписании
	ErrInvalidSchedule = errors.New("reengagement: invalid schedule")
)
