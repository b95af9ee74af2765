package notification

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/service/localstate"
	"golang.org/x/sync/errgroup"
)

// Config holds notification service configuration
type Config struct {
	Concurrency int // default: 4
}

type service struct {
	client notification.Client
	store  *localstate.Store
	logger *slog.Logger
	config Config
}

func NewNotificationService(client notification.Client, store *localstate.Store, logger *slog.Logger, cfg Config) notification.Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &service{client: client, store: store, logger: logger, config: cfg}
}

// Inbox implements notification.Service. The list and the unread count are
// fetched concurrently; either failing fails the whole call.
func (s *service) Inbox(ctx context.Context) (notification.Inbox, error) {
	userID, err := s.store.UserID(ctx)
	if errors.Is(err, user.ErrProfileNotFound) {
		return notification.Inbox{}, apierror.Invalid(err)
	}
	if err != nil {
		return notification.Inbox{}, apierror.Classify(err)
	}

	var inbox notification.Inbox
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.client.List(gctx, userID)
		inbox.Items = items
		return err
	})
	g.Go(func() error {
		count, err := s.client.UnreadCount(gctx, userID)
		inbox.Unread = count
		return err
	})
	if err := g.Wait(); err != nil {
		return notification.Inbox{}, err
	}
	return inbox, nil
}

// MarkAllAsRead implements notification.Service.
func (s *service) MarkAllAsRead(ctx context.Context, userID string, list []notification.Notification) (notification.MarkAllResult, error) {
	if userID == "" {
		return notification.MarkAllResult{}, apierror.Invalid(notification.ErrUserIDRequired)
	}

	var succeeded, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(s.config.Concurrency)
	for _, n := range notification.Unread(list) {
		g.Go(func() error {
			if _, err := s.client.MarkAsRead(ctx, n.ID, userID); err != nil {
				s.logger.Warn("failed to mark notification as read", "notification_id", n.ID, "error", err)
				failed.Add(1)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return notification.MarkAllResult{Succeeded: int(succeeded.Load()), Failed: int(failed.Load())}, nil
}
