package fakeapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/validator"
)

// envelope is the single response shape every endpoint uses.
type envelope struct {
	IsSuccess  bool   `json:"isSuccess"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	TotalCount int    `json:"totalCount,omitempty"`
}

var (
	errInvalidCredentials = errors.New("Invalid email or password")
	errInvalidToken       = errors.New("Invalid or expired token")
	errUserNotFound       = errors.New("User not found")
	errNotificationFound  = errors.New("Notification not found")
	errAlreadyCheckedIn   = errors.New("You have already checked in")
	errNotCheckedIn       = errors.New("You have not checked in yet")
	errMissingFile        = errors.New("file is required")
)

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		_ = json.NewEncoder(w).Encode(envelope{Message: "Failed to encode response"})
	}
}

func success(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, envelope{IsSuccess: true, Message: message, Data: data})
}

func successList(w http.ResponseWriter, message string, data any, total int) {
	writeJSON(w, http.StatusOK, envelope{IsSuccess: true, Message: message, Data: data, TotalCount: total})
}

// rejected reports a business failure with a 200, the way the backend does
// for duplicate check-ins.
func rejected(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Message: message})
}

func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Message: message})
}

// handleError maps handler errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fail(w, http.StatusBadRequest, validationErrs.Error())
		return
	}

	switch {
	case errors.Is(err, errInvalidCredentials), errors.Is(err, errInvalidToken):
		fail(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, errUserNotFound), errors.Is(err, errNotificationFound):
		fail(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errAlreadyCheckedIn), errors.Is(err, errNotCheckedIn):
		rejected(w, err.Error())
	case errors.Is(err, errMissingFile):
		fail(w, http.StatusBadRequest, err.Error())
	default:
		fail(w, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validator.ValidationErrors{{Field: "body", Message: "invalid JSON body"}}
	}
	return nil
}
