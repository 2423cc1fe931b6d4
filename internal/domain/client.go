package domain

import (
	"strings"
	"time"
)

// Client represents a client record in the master's CRM.
// A record may exist before the client ever opens the mini-app; once they
// book, the record is bound to their Telegram account.
type Client struct {
	ID                 string
	MasterID           string
	Name               string
	TelegramID         *int64
	Username           *string
	Phone              *string
	Notes              *string
	LastReminderSentAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsLinked returns true if the record is bound to a Telegram account
func (c *Client) IsLinked() bool {
	return c.TelegramID != nil && *c.TelegramID != 0
}

// NormalizeUsername strips the leading @ and lowercases a Telegram
// username for matching.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// ClientFilter defines filtering options for listing CRM clients
type ClientFilter struct {
	MasterID *string
	Search   *string
}

// DueReengagement is a projection of a client whose last completed visit is
// old enough to warrant a come-back nudge. Only clients with a bound
// Telegram account are selected.
type DueReengagement struct {
	ClientID   string
	MasterID   string
	Name       string
	TelegramID int64
	LastVisit  time.Time
}
