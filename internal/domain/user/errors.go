package user

import "errors"

var (
	ErrProfileNotFound = errors.New("User data not found")
	ErrNoPhotoURL      = errors.New("upload response carries no photo url")
	ErrEmptyPhoto      = errors.New("photo content is required")
)
