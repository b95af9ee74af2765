package client

import "errors"

var (
	errTokenRequired          = errors.New("token is required")
	errUserIDRequired         = errors.New("user id is required")
	errNotificationIDRequired = errors.New("notification id is required")
	errEmployeeIDRequired     = errors.New("employee id is required")
)
