package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/client"
	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/biometric"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/navigation"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/notifier"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/push"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-client-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hris-client-go/internal/service/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/service/localstate"
	notificationService "github.com/cmlabs-hris/hris-client-go/internal/service/notification"
	profileService "github.com/cmlabs-hris/hris-client-go/internal/service/profile"
	"github.com/cmlabs-hris/hris-client-go/internal/service/session"
	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

const (
	storageNamespace = "hrisctl"
	retryHint        = "Run the command again to retry."
)

type globalFlags struct {
	offline     bool
	noBiometric bool
	pushToken   string
}

// app is everything a command needs, wired the way the mobile app wires
// its screens.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifier.Notifier
	reporter *apierror.Reporter

	store   *localstate.Store
	clients *client.Clients
	nav     *navigation.Stack
	session *session.Orchestrator

	attendance    attendance.Service
	profile       user.Service
	notifications notification.Service

	closers []func()
}

func newApp(ctx context.Context, flags globalFlags, out io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger.New(os.Stderr, cfg),
		notifier: notifier.NewWriter(out),
		nav:      navigation.NewStack(),
	}

	kv, err := a.openStorage(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.store = localstate.New(kv, cfg.Auth)

	reporterOpts := []apierror.ReporterOption{apierror.WithRetryHint(retryHint)}
	if cfg.Sentry.DSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			AttachStacktrace: true,
			ServerName:       cfg.App.Name,
			Release:          cfg.Sentry.Release,
			Environment:      cfg.Sentry.Environment,
		})
		if err != nil {
			a.logger.Warn("failed to initialize sentry", "error", err)
		} else {
			reporterOpts = append(reporterOpts, apierror.WithSentry(sentry.CurrentHub()))
			a.closers = append(a.closers, func() { sentry.Flush(2 * time.Second) })
		}
	}
	a.reporter = apierror.NewReporter(a.notifier, a.logger, reporterOpts...)

	monitor := a.openMonitor(ctx, flags.offline)

	a.clients = client.NewClients(cfg, a.store, monitor, a.logger)
	a.closers = append(a.closers, a.clients.Close)

	provider := push.NewDevice(flags.pushToken)
	a.session = session.NewOrchestrator(a.store, a.clients.Auth, a.clients.Push, provider, a.nav, a.logger)

	var authenticator biometric.Authenticator = biometric.NewTerminal(os.Stdin, out)
	if flags.noBiometric {
		authenticator = biometric.Static{Enrolled: true, Pass: true}
	}
	a.attendance = attendanceService.NewAttendanceService(a.clients.Attendance, a.store, authenticator, cfg.Biometrics, a.logger)
	a.profile = profileService.NewProfileService(a.clients.User, a.store, a.logger)
	a.notifications = notificationService.NewNotificationService(a.clients.Notifications, a.store, a.logger, notificationService.Config{})

	stop := a.session.Start(ctx)
	a.closers = append(a.closers, stop)
	return a, nil
}

func (a *app) openStorage(ctx context.Context) (storage.KeyValueStore, error) {
	switch a.cfg.Storage.Type {
	case "memory":
		return storage.NewMemoryStorage(), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Storage.RedisAddr,
			Password: a.cfg.Storage.RedisPassword,
			DB:       a.cfg.Storage.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		return storage.NewRedisStorage(rdb, storageNamespace), nil
	case "postgres":
		db, err := database.NewPostgreSQLDB(ctx, a.cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		repo := postgresql.NewKeyValueRepository(db, storageNamespace)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return storage.NewLocalStorage(a.cfg.Storage.BasePath)
	}
}

func (a *app) openMonitor(ctx context.Context, offline bool) netstate.Monitor {
	if offline {
		return netstate.NewSwitch(netstate.State{IsConnected: netstate.Bool(false), Type: "none"})
	}
	prober := netstate.NewProber(a.cfg.Network.ProbeURL, a.cfg.Network.ProbeInterval, a.logger)
	prober.Check(ctx)
	prober.Start(ctx)
	a.closers = append(a.closers, prober.Close)
	return prober
}

// open navigates to route the way a screen would. Route protection sends
// an unauthenticated user back to Login.
func (a *app) open(route navigation.Route) error {
	a.nav.Navigate(route)
	if a.nav.Current() != route {
		return apierror.Invalid(fmt.Errorf("%w: please login first", auth.ErrNotAuthenticated))
	}
	return nil
}

// fail reports err to the user and the log sink and returns it for the
// exit status.
func (a *app) fail(ctx context.Context, err error, where string) error {
	a.reporter.Handle(ctx, err, where)
	return err
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
