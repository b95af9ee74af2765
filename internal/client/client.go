// Package client holds the per-domain clients of the attendance backend.
// Every client is built by the same httpclient factory and returns
// *apierror.Error on failure.
package client

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
)

const (
	AuthPath          = "/service/auth"
	AttendancePath    = "/service/attendance"
	UserPath          = "/service/user"
	NotificationsPath = "/service/notifications"
	PushTokenPath     = "/service/fcm-token"
)

// Clients is the bundle of domain clients sharing one token source and one
// network monitor.
type Clients struct {
	Auth          *AuthClient
	Attendance    *AttendanceClient
	Leave         *LeaveClient
	User          *UserClient
	Notifications *NotificationClient
	Push          *PushClient

	closers []*httpclient.Client
}

func NewClients(cfg *config.Config, tokens httpclient.TokenSource, monitor netstate.Monitor, logger *slog.Logger) *Clients {
	c := &Clients{}
	build := func(path string) *httpclient.Client {
		opts := httpclient.Options{
			Origin:  cfg.API.BaseURL,
			Path:    path,
			Timeout: cfg.API.Timeout,
			Tokens:  tokens,
			Monitor: monitor,
			Logger:  logger.With("client", strings.TrimPrefix(path, "/service/")),
		}
		if cfg.Breaker.Enabled {
			opts.Breaker = httpclient.NewBreaker(httpclient.BreakerSettings{
				Name:        path,
				MaxRequests: cfg.Breaker.MaxRequests,
				Interval:    cfg.Breaker.Interval,
				Timeout:     cfg.Breaker.Timeout,
			}, logger)
		}
		hc := httpclient.New(opts)
		c.closers = append(c.closers, hc)
		return hc
	}

	attendance := build(AttendancePath)
	c.Auth = NewAuthClient(build(AuthPath))
	c.Attendance = NewAttendanceClient(attendance)
	c.Leave = NewLeaveClient(attendance)
	c.User = NewUserClient(build(UserPath))
	c.Notifications = NewNotificationClient(build(NotificationsPath))
	c.Push = NewPushClient(build(PushTokenPath))
	return c
}

// Close detaches every client from the network monitor.
func (c *Clients) Close() {
	for _, hc := range c.closers {
		hc.Close()
	}
}

// validate turns a local validation failure into a client error so that no
// request is sent.
func validate(v interface{ Validate() error }) error {
	if err := v.Validate(); err != nil {
		return apierror.Invalid(err)
	}
	return nil
}

func required(value string, err error) error {
	if strings.TrimSpace(value) == "" {
		return apierror.Invalid(err)
	}
	return nil
}

func seg(s string) string {
	return url.PathEscape(s)
}
