// Package session decides the entry route on start, keeps the
// authentication flag in sync with the stored credentials and keeps
// protected routes out of reach without it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/navigation"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/push"
	"github.com/cmlabs-hris/hris-client-go/internal/service/localstate"
)

const DefaultBestEffortTimeout = 5 * time.Second

type Orchestrator struct {
	store     *localstate.Store
	auth      auth.Client
	pushAPI   notification.PushTokenClient
	provider  push.Provider
	navigator navigation.Navigator
	logger    *slog.Logger

	state             AuthState
	bestEffortTimeout time.Duration
}

type Option func(*Orchestrator)

// WithBestEffortTimeout bounds push-token registration and revocation.
func WithBestEffortTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.bestEffortTimeout = d
	}
}

func NewOrchestrator(store *localstate.Store, authClient auth.Client, pushAPI notification.PushTokenClient, provider push.Provider, navigator navigation.Navigator, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:             store,
		auth:              authClient,
		pushAPI:           pushAPI,
		provider:          provider,
		navigator:         navigator,
		logger:            logger,
		bestEffortTimeout: DefaultBestEffortTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State exposes the authentication flag for synchronous reads.
func (o *Orchestrator) State() *AuthState {
	return &o.state
}

// Bootstrap picks the entry route from what is stored. Any storage failure
// lands on Welcome.
func (o *Orchestrator) Bootstrap(ctx context.Context) navigation.Route {
	loggedIn, err := o.store.IsLoggedIn(ctx)
	if err != nil {
		o.logger.Error("failed to read stored credentials", "error", err)
		return navigation.Welcome
	}
	if loggedIn {
		o.state.set(true)
		o.bestEffort(ctx, "register push token", o.registerPushToken)
		return navigation.Dashboard
	}

	o.state.set(false)
	firstTime, err := o.store.IsFirstTimeUser(ctx)
	if err != nil {
		o.logger.Error("failed to read onboarding flag", "error", err)
		return navigation.Welcome
	}
	if firstTime {
		return navigation.Welcome
	}
	return navigation.Login
}

// Start resets navigation to the bootstrap route, enforces route protection
// on every later change and follows device token rotations. The returned
// function stops both.
func (o *Orchestrator) Start(ctx context.Context) func() {
	route := o.Bootstrap(ctx)
	o.navigator.Reset(route)
	stopNav := o.navigator.Subscribe(o.Enforce)
	stopRefresh := o.provider.OnRefresh(func(token string) {
		o.refreshPushToken(ctx, token)
	})
	return func() {
		stopRefresh()
		stopNav()
	}
}

// refreshPushToken registers a rotated device token while a session is
// active. Signed-out rotations are picked up by the next login.
func (o *Orchestrator) refreshPushToken(ctx context.Context, token string) {
	if !o.state.IsAuthenticated() {
		return
	}
	o.bestEffort(ctx, "refresh push token", func(ctx context.Context) error {
		return o.registerToken(ctx, token)
	})
}

// Login authenticates, persists the session and moves to the dashboard.
// Errors are *apierror.Error.
func (o *Orchestrator) Login(ctx context.Context, req auth.LoginRequest) (user.Profile, error) {
	resp, err := o.auth.Login(ctx, req)
	if err != nil {
		return user.Profile{}, err
	}

	if err := o.persist(ctx, resp); err != nil {
		if clearErr := o.store.ClearSession(ctx); clearErr != nil {
			o.logger.Error("failed to roll back partial login", "error", clearErr)
		}
		return user.Profile{}, apierror.Classify(err)
	}

	o.state.set(true)
	o.navigator.Reset(navigation.Dashboard)
	o.bestEffort(ctx, "register push token", o.registerPushToken)

	o.logger.Info("user logged in", "user_id", resp.UserObject.ID)
	return resp.UserObject, nil
}

// persist writes the credential pair last so a stored token always comes
// with a cached profile.
func (o *Orchestrator) persist(ctx context.Context, resp auth.LoginResponse) error {
	if err := o.store.SaveUser(ctx, resp.UserObject); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	if err := o.store.MarkOnboarded(ctx); err != nil {
		return fmt.Errorf("failed to mark onboarding: %w", err)
	}
	return o.store.SaveTokens(ctx, resp.Token)
}

// Logout revokes the push token, wipes the session and resets to Login.
// The flag is cleared and navigation reset even when storage fails; the
// storage error is returned.
func (o *Orchestrator) Logout(ctx context.Context) error {
	o.bestEffort(ctx, "revoke push token", o.revokePushToken)
	o.bestEffort(ctx, "delete device token", o.provider.Delete)

	var errs []error
	if err := o.store.ClearPushToken(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear push token: %w", err))
	}
	if err := o.store.ClearSession(ctx); err != nil {
		errs = append(errs, err)
	}

	o.state.set(false)
	o.navigator.Reset(navigation.Login)

	if err := errors.Join(errs...); err != nil {
		o.logger.Error("logout left stored state behind", "error", err)
		return apierror.Classify(err)
	}
	o.logger.Info("user logged out")
	return nil
}

// Enforce applies route protection to route. It resets at most once per
// inconsistent route and does nothing when route agrees with the flag.
func (o *Orchestrator) Enforce(route navigation.Route) {
	authenticated := o.state.IsAuthenticated()
	switch {
	case route.Protected() && !authenticated:
		o.logger.Warn("protected route without session", "route", route)
		o.navigator.Reset(navigation.Login)
	case route.Entry() && authenticated:
		o.navigator.Reset(navigation.Dashboard)
	}
}

func (o *Orchestrator) registerPushToken(ctx context.Context) error {
	token, err := o.provider.DeviceToken(ctx)
	if err != nil {
		return err
	}
	return o.registerToken(ctx, token)
}

func (o *Orchestrator) registerToken(ctx context.Context, token string) error {
	profile, err := o.store.User(ctx)
	if err != nil {
		return err
	}
	err = o.pushAPI.Register(ctx, notification.RegisterPushTokenRequest{
		FCMToken:   token,
		UserID:     profile.ID,
		EmployeeID: profile.EmployeeID,
	})
	if err != nil {
		return err
	}
	return o.store.SavePushToken(ctx, token)
}

func (o *Orchestrator) revokePushToken(ctx context.Context) error {
	token, err := o.store.PushToken(ctx)
	if err != nil || token == "" {
		return err
	}
	userID, err := o.store.UserID(ctx)
	if err != nil && !errors.Is(err, user.ErrProfileNotFound) {
		return err
	}
	return o.pushAPI.Revoke(ctx, notification.RevokePushTokenRequest{FCMToken: token, UserID: userID})
}

// bestEffort runs fn with a bounded timeout. Failures are logged and never
// reach the caller.
func (o *Orchestrator) bestEffort(ctx context.Context, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, o.bestEffortTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		o.logger.Warn("best-effort step failed", "step", name, "error", err)
	}
}
