package notification

import "context"

// Client is the notifications domain of the backend API.
type Client interface {
	List(ctx context.Context, userID string) ([]Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (string, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, notificationID, userID string) (string, error)
}

// PushTokenClient registers device push tokens with the backend.
type PushTokenClient interface {
	Register(ctx context.Context, req RegisterPushTokenRequest) error
	Revoke(ctx context.Context, req RevokePushTokenRequest) error
}

// Service is the notification flow a screen runs.
type Service interface {
	// Inbox loads the logged-in user's notifications and unread count.
	Inbox(ctx context.Context) (Inbox, error)
	// MarkAllAsRead marks every unread entry of list. Individual failures
	// are counted, not returned.
	MarkAllAsRead(ctx context.Context, userID string, list []Notification) (MarkAllResult, error)
}
