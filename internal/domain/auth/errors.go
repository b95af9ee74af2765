package auth

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMissingToken     = errors.New("login response carries no access token")
)
