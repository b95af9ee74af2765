package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/service/localstate"
)

type service struct {
	client user.Client
	store  *localstate.Store
	logger *slog.Logger
}

func NewProfileService(client user.Client, store *localstate.Store, logger *slog.Logger) user.Service {
	return &service{client: client, store: store, logger: logger}
}

// ChangePhoto implements user.Service.
func (s *service) ChangePhoto(ctx context.Context, photo user.Photo) (user.Profile, error) {
	profile, err := s.Current(ctx)
	if err != nil {
		return user.Profile{}, err
	}

	resp, err := s.client.UploadProfilePic(ctx, photo)
	if err != nil {
		return user.Profile{}, err
	}
	url := resp.URL()
	if url == "" {
		return user.Profile{}, apierror.Classify(user.ErrNoPhotoURL)
	}

	profile.ProfilePhotoURL = url
	if err := s.store.SaveUser(ctx, profile); err != nil {
		s.logger.Error("failed to update cached profile", "error", err)
		return profile, apierror.Classify(err)
	}
	return profile, nil
}

// Current implements user.Service.
func (s *service) Current(ctx context.Context) (user.Profile, error) {
	profile, err := s.store.User(ctx)
	if errors.Is(err, user.ErrProfileNotFound) {
		return user.Profile{}, apierror.Invalid(err)
	}
	if err != nil {
		return user.Profile{}, apierror.Classify(err)
	}
	return profile, nil
}
