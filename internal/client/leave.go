package client

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

// LeaveClient talks to leave-management, which lives under the attendance
// base path.
type LeaveClient struct {
	http *httpclient.Client
}

var _ leave.Client = (*LeaveClient)(nil)

func NewLeaveClient(hc *httpclient.Client) *LeaveClient {
	return &LeaveClient{http: hc}
}

func (c *LeaveClient) Create(ctx context.Context, req leave.CreateRequest) (string, error) {
	if req.Status == "" {
		req.Status = leave.StatusPending
	}
	if err := validate(&req); err != nil {
		return "", err
	}
	return message(httpclient.PostJSON[json.RawMessage](ctx, c.http, "/leave-management/create", req))
}

func (c *LeaveClient) List(ctx context.Context, params attendance.ReportParams) (httpclient.Page[leave.Leave], error) {
	if err := validate(&params); err != nil {
		return httpclient.Page[leave.Leave]{}, err
	}
	env, err := httpclient.GetJSON[[]leave.Leave](ctx, c.http, "/leave-management/getLeaves", params)
	if err != nil {
		return httpclient.Page[leave.Leave]{}, err
	}
	return httpclient.PageOf(env), nil
}

func (c *LeaveClient) ListByUser(ctx context.Context, userID string) ([]leave.Leave, error) {
	if err := required(userID, errUserIDRequired); err != nil {
		return nil, err
	}
	env, err := httpclient.GetJSON[[]leave.Leave](ctx, c.http, "/leave-management/getAllByUserId/"+seg(userID), nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
