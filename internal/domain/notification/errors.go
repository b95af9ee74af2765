package notification

import "errors"

var (
	ErrUserIDRequired    = errors.New("user id is required")
	ErrPushTokenRequired = errors.New("push token is required")
)
