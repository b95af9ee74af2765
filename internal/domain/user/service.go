package user

import "context"

// Client is the user domain of the backend API.
type Client interface {
	UploadProfilePic(ctx context.Context, photo Photo) (UploadPhotoResponse, error)
}

// Service is the profile flow a screen runs.
type Service interface {
	// ChangePhoto uploads photo and updates the cached profile.
	ChangePhoto(ctx context.Context, photo Photo) (Profile, error)
	// Current returns the cached profile.
	Current(ctx context.Context) (Profile, error)
}
