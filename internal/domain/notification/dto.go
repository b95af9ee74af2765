package notification

type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MarkAllResult reports a bulk mark-as-read.
type MarkAllResult struct {
	Succeeded int
	Failed    int
}

// RegisterPushTokenRequest links a device push token to the employee.
type RegisterPushTokenRequest struct {
	FCMToken   string `json:"fcmToken"`
	UserID     string `json:"userId"`
	EmployeeID string `json:"employeeId"`
}

type RevokePushTokenRequest struct {
	FCMToken string `json:"fcmToken"`
	UserID   string `json:"userId"`
}

type Inbox struct {
	Items  []Notification
	Unread int
}
