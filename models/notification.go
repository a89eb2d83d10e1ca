package models

import "time"

// AppNotification is a server-populated, read-only message surfaced to the
// customer tracking UI. Notifications are polled, never pushed, and there is
// no mark-as-read write path.
type AppNotification struct {
	ID        string    `json:"id"`
	OrderCode string    `json:"orderCode"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
}
