package apierror

import "net/http"

const (
	MsgNoInternet        = "No internet connection. Please check your network and try again."
	MsgTimedOut          = "Request timed out. The server is taking too long to respond."
	MsgUnexpected        = "An unexpected error occurred. Please try again."
	MsgServerUnavailable = "Server is temporarily unavailable. Please try again later."
	MsgGeneric           = "Something went wrong. Please try again."
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Session expired. Please login again.",
	http.StatusForbidden:           "You don't have permission to perform this action.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusRequestTimeout:      "Request timeout. Please try again.",
	http.StatusTooManyRequests:     "Too many requests. Please wait a moment and try again.",
	http.StatusInternalServerError: "Server error. Our team has been notified.",
	http.StatusBadGateway:          "Bad gateway. The server is temporarily unavailable.",
	http.StatusServiceUnavailable:  "Service unavailable. Please try again later.",
	http.StatusGatewayTimeout:      "Gateway timeout. The server is not responding.",
}

// DefaultMessageForStatus returns the user-facing message for a status when
// the response body carries none.
func DefaultMessageForStatus(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	if status >= 500 {
		return "Server error. Please try again later."
	}
	return MsgGeneric
}
