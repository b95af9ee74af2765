// Package localstate keeps the session on the device: the credential pair,
// the cached profile, the attendance snapshot and the push token.
package localstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/storage"
)

const onboardedValue = "true"

// Store is typed access to the persistent key-value store. Reads of
// optional values report absence instead of failing.
type Store struct {
	kv   storage.KeyValueStore
	keys config.AuthConfig
}

func New(kv storage.KeyValueStore, keys config.AuthConfig) *Store {
	return &Store{kv: kv, keys: keys}
}

// SaveTokens writes both tokens in one batch when the backend supports it.
func (s *Store) SaveTokens(ctx context.Context, tokens auth.TokenPair) error {
	if tokens.AccessToken == "" {
		return auth.ErrMissingToken
	}
	err := storage.SetMany(ctx, s.kv, map[string]string{
		s.keys.TokenKey:        tokens.AccessToken,
		s.keys.RefreshTokenKey: tokens.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// AccessToken returns the stored token, or "" when there is none.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	return s.optional(ctx, s.keys.TokenKey)
}

// RefreshToken is persisted for completeness. Nothing refreshes with it.
func (s *Store) RefreshToken(ctx context.Context) (string, error) {
	return s.optional(ctx, s.keys.RefreshTokenKey)
}

func (s *Store) IsLoggedIn(ctx context.Context) (bool, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

func (s *Store) SaveUser(ctx context.Context, profile user.Profile) error {
	return s.setJSON(ctx, s.keys.UserKey, profile)
}

// User returns the cached profile or user.ErrProfileNotFound.
func (s *Store) User(ctx context.Context) (user.Profile, error) {
	var profile user.Profile
	found, err := s.getJSON(ctx, s.keys.UserKey, &profile)
	if err != nil {
		return user.Profile{}, err
	}
	if !found {
		return user.Profile{}, user.ErrProfileNotFound
	}
	return profile, nil
}

func (s *Store) UserID(ctx context.Context) (string, error) {
	profile, err := s.User(ctx)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

// IsFirstTimeUser reports whether the welcome screen has never been passed.
func (s *Store) IsFirstTimeUser(ctx context.Context) (bool, error) {
	v, err := s.optional(ctx, s.keys.OnboardingKey)
	if err != nil {
		return false, err
	}
	return v != onboardedValue, nil
}

func (s *Store) MarkOnboarded(ctx context.Context) error {
	return s.kv.Set(ctx, s.keys.OnboardingKey, onboardedValue)
}

func (s *Store) SaveAttendanceSession(ctx context.Context, session attendance.Session) error {
	return s.setJSON(ctx, s.keys.SessionKey, session)
}

// AttendanceSession returns the zero snapshot when none was saved.
func (s *Store) AttendanceSession(ctx context.Context) (attendance.Session, error) {
	var session attendance.Session
	if _, err := s.getJSON(ctx, s.keys.SessionKey, &session); err != nil {
		return attendance.Session{}, err
	}
	return session, nil
}

func (s *Store) ClearAttendanceSession(ctx context.Context) error {
	return s.kv.Delete(ctx, s.keys.SessionKey)
}

func (s *Store) SavePushToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, s.keys.PushTokenKey, token)
}

func (s *Store) PushToken(ctx context.Context) (string, error) {
	return s.optional(ctx, s.keys.PushTokenKey)
}

func (s *Store) ClearPushToken(ctx context.Context) error {
	return s.kv.Delete(ctx, s.keys.PushTokenKey)
}

// ClearSession removes the credential pair, the profile and the attendance
// snapshot. Onboarding and the push token survive.
func (s *Store) ClearSession(ctx context.Context) error {
	err := s.kv.Delete(ctx, s.keys.TokenKey, s.keys.RefreshTokenKey, s.keys.UserKey, s.keys.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) optional(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(data))
}

func (s *Store) getJSON(ctx context.Context, key string, v any) (bool, error) {
	raw, err := s.optional(ctx, key)
	if err != nil || raw == "" {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
