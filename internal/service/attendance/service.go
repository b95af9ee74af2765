package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/biometric"
	"github.com/cmlabs-hris/hris-client-go/internal/service/localstate"
)

const (
	checkedInMessage  = "Checked In Successfully!"
	checkedOutMessage = "Checked Out Successfully!"
)

type service struct {
	client    attendance.Client
	store     *localstate.Store
	biometric biometric.Authenticator
	prompt    biometric.Prompt
	logger    *slog.Logger
	now       func() time.Time
}

func NewAttendanceService(client attendance.Client, store *localstate.Store, auth biometric.Authenticator, cfg config.BiometricsConfig, logger *slog.Logger) attendance.Service {
	return &service{
		client:    client,
		store:     store,
		biometric: auth,
		prompt:    biometric.Prompt{Message: cfg.PromptMessage, CancelLabel: cfg.CancelButtonText},
		logger:    logger,
		now:       time.Now,
	}
}

// Toggle implements attendance.Service. Local failures (biometrics, no
// cached profile) are returned as client errors without any request.
func (s *service) Toggle(ctx context.Context) (attendance.ToggleResult, error) {
	available, err := s.biometric.Available(ctx)
	if err != nil || !available {
		return attendance.ToggleResult{}, apierror.Invalid(attendance.ErrBiometricUnavailable)
	}
	passed, err := s.biometric.Authenticate(ctx, s.prompt)
	if err != nil || !passed {
		return attendance.ToggleResult{}, apierror.Invalid(attendance.ErrBiometricFailed)
	}

	profile, err := s.profile(ctx)
	if err != nil {
		return attendance.ToggleResult{}, err
	}
	current, err := s.store.AttendanceSession(ctx)
	if err != nil {
		return attendance.ToggleResult{}, apierror.Classify(err)
	}

	reason := current.NextReason()
	message, err := s.client.Create(ctx, attendance.CreateRequest{EmpID: profile.EmployeeID, Reason: reason})
	if err != nil {
		return attendance.ToggleResult{}, err
	}

	var next attendance.Session
	switch reason {
	case attendance.ReasonCheckIn:
		next = current.CheckIn(s.now())
		if message == "" {
			message = checkedInMessage
		}
	case attendance.ReasonCheckOut:
		next = current.CheckOut(s.now())
		if message == "" {
			message = checkedOutMessage
		}
	}

	// The server already recorded the action; a local write failure only
	// loses the snapshot.
	if err := s.store.SaveAttendanceSession(ctx, next); err != nil {
		s.logger.Error("failed to save attendance session", "error", err)
	}

	s.logger.Info("attendance recorded", "employee_id", profile.EmployeeID, "reason", reason)
	return attendance.ToggleResult{Session: next, Message: message}, nil
}

// Stats implements attendance.Service.
func (s *service) Stats(ctx context.Context, year, month int) (attendance.EmployeeStats, error) {
	profile, err := s.profile(ctx)
	if err != nil {
		return attendance.EmployeeStats{}, err
	}
	return s.client.EmployeeStats(ctx, attendance.StatsParams{Year: year, Month: month, EmpDocID: profile.ID})
}

// CurrentSession implements attendance.Service.
func (s *service) CurrentSession(ctx context.Context) (attendance.Session, error) {
	session, err := s.store.AttendanceSession(ctx)
	if err != nil {
		return attendance.Session{}, apierror.Classify(err)
	}
	return session, nil
}

func (s *service) profile(ctx context.Context) (user.Profile, error) {
	profile, err := s.store.User(ctx)
	if errors.Is(err, user.ErrProfileNotFound) {
		return user.Profile{}, apierror.Invalid(err)
	}
	if err != nil {
		return user.Profile{}, apierror.Classify(err)
	}
	return profile, nil
}
