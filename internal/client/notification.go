package client

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

type NotificationClient struct {
	http *httpclient.Client
}

var _ notification.Client = (*NotificationClient)(nil)

func NewNotificationClient(hc *httpclient.Client) *NotificationClient {
	return &NotificationClient{http: hc}
}

func (c *NotificationClient) List(ctx context.Context, userID string) ([]notification.Notification, error) {
	if err := required(userID, errUserIDRequired); err != nil {
		return nil, err
	}
	env, err := httpclient.GetJSON[[]notification.Notification](ctx, c.http, "/user/"+seg(userID), nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *NotificationClient) MarkAsRead(ctx context.Context, notificationID, userID string) (string, error) {
	if err := c.check(notificationID, userID); err != nil {
		return "", err
	}
	return message(httpclient.PatchJSON[json.RawMessage](ctx, c.http, "/"+seg(notificationID)+"/read/"+seg(userID), nil))
}

func (c *NotificationClient) UnreadCount(ctx context.Context, userID string) (int, error) {
	if err := required(userID, errUserIDRequired); err != nil {
		return 0, err
	}
	env, err := httpclient.GetJSON[notification.UnreadCountResponse](ctx, c.http, "/unread-count/"+seg(userID), nil)
	if err != nil {
		return 0, err
	}
	return env.Data.Count, nil
}

func (c *NotificationClient) Delete(ctx context.Context, notificationID, userID string) (string, error) {
	if err := c.check(notificationID, userID); err != nil {
		return "", err
	}
	return message(httpclient.DeleteJSON[json.RawMessage](ctx, c.http, "/"+seg(notificationID)+"/user/"+seg(userID), nil))
}

func (c *NotificationClient) check(notificationID, userID string) error {
	if err := required(notificationID, errNotificationIDRequired); err != nil {
		return err
	}
	return required(userID, errUserIDRequired)
}
