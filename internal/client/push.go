package client

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

// PushClient registers device push tokens at /service/fcm-token.
type PushClient struct {
	http *httpclient.Client
}

var _ notification.PushTokenClient = (*PushClient)(nil)

func NewPushClient(hc *httpclient.Client) *PushClient {
	return &PushClient{http: hc}
}

func (c *PushClient) Register(ctx context.Context, req notification.RegisterPushTokenRequest) error {
	if err := required(req.FCMToken, notification.ErrPushTokenRequired); err != nil {
		return err
	}
	if err := required(req.UserID, errUserIDRequired); err != nil {
		return err
	}
	_, err := httpclient.PostJSON[json.RawMessage](ctx, c.http, "", req)
	return err
}

func (c *PushClient) Revoke(ctx context.Context, req notification.RevokePushTokenRequest) error {
	if err := required(req.FCMToken, notification.ErrPushTokenRequired); err != nil {
		return err
	}
	_, err := httpclient.DeleteJSON[json.RawMessage](ctx, c.http, "", req)
	return err
}
