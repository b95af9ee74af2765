package client

import (
	"context"
	"encoding/json"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

type AttendanceClient struct {
	http *httpclient.Client
}

var _ attendance.Client = (*AttendanceClient)(nil)

func NewAttendanceClient(hc *httpclient.Client) *AttendanceClient {
	return &AttendanceClient{http: hc}
}

func (c *AttendanceClient) Create(ctx context.Context, req attendance.CreateRequest) (string, error) {
	if err := validate(&req); err != nil {
		return "", err
	}
	return message(httpclient.PostJSON[json.RawMessage](ctx, c.http, "/create", req))
}

func (c *AttendanceClient) Report(ctx context.Context, params attendance.ReportParams) (httpclient.Page[attendance.EmployeeReport], error) {
	if err := validate(&params); err != nil {
		return httpclient.Page[attendance.EmployeeReport]{}, err
	}
	env, err := httpclient.GetJSON[[]attendance.EmployeeReport](ctx, c.http, "/report", params)
	if err != nil {
		return httpclient.Page[attendance.EmployeeReport]{}, err
	}
	return httpclient.PageOf(env), nil
}

func (c *AttendanceClient) EmployeeStats(ctx context.Context, params attendance.StatsParams) (attendance.EmployeeStats, error) {
	if err := validate(&params); err != nil {
		return attendance.EmployeeStats{}, err
	}
	env, err := httpclient.GetJSON[attendance.EmployeeStats](ctx, c.http, "/employeeStats", params)
	if err != nil {
		return attendance.EmployeeStats{}, err
	}
	return env.Data, nil
}

func (c *AttendanceClient) ReportsByEmployee(ctx context.Context, empDocID string, params attendance.ReportParams) (httpclient.Page[attendance.Record], error) {
	if err := required(empDocID, errEmployeeIDRequired); err != nil {
		return httpclient.Page[attendance.Record]{}, err
	}
	if err := validate(&params); err != nil {
		return httpclient.Page[attendance.Record]{}, err
	}
	env, err := httpclient.GetJSON[[]attendance.Record](ctx, c.http, "/reportsByEmployId/"+seg(empDocID), params)
	if err != nil {
		return httpclient.Page[attendance.Record]{}, err
	}
	return httpclient.PageOf(env), nil
}
