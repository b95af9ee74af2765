package notification

import (
	"encoding/json"
	"time"
)

type Notification struct {
	ID     string `json:"_id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	// Message and NotificationMessage carry the same text; the backend
	// fills the latter.
	Message             string          `json:"message,omitempty"`
	NotificationMessage string          `json:"notificationMessage,omitempty"`
	Type                string          `json:"type,omitempty"`
	IsRead              bool            `json:"isRead"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           *time.Time      `json:"updatedAt,omitempty"`
	Data                json.RawMessage `json:"data,omitempty"`
}

// DisplayMessage prefers notificationMessage over message.
func (n Notification) DisplayMessage() string {
	if n.NotificationMessage != "" {
		return n.NotificationMessage
	}
	return n.Message
}

// Unread returns the notifications not yet read.
func Unread(list []Notification) []Notification {
	var out []Notification
	for _, n := range list {
		if !n.IsRead {
			out = append(out, n)
		}
	}
	return out
}
