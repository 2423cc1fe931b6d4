package domain

import "time"

// Master represents the single operator of the booking system.
// Stored in the users table with the is_master flag set.
type Master struct {
	ID           string
	FirstName    string
	LastName     *string
	Username     *string
	TelegramID   *int64
	IsAdmin      bool
	DrinkOptions []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns the master's name for notification texts
func (m *Master) DisplayName() string {
	if m.LastName != nil && *m.LastName != "" {
		return m.FirstName + " " + *m.LastName
	}
	return m.FirstName
}

// HasTelegram returns true if the master can receive Telegram notifications
func (m *Master) HasTelegram() bool {
	return m.TelegramID != nil && *m.TelegramID != 0
}
