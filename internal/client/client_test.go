package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/client"
	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/fakeapi"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var employee = user.Profile{
	ID:            "u-1",
	EmployeeID:    "EMP-001",
	FullName:      "Dana Putri",
	OfficialEmail: "dana@example.com",
	Position:      "Engineer",
}

const password = "secret123"

type memoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memoryTokens) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memoryTokens) set(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

type fixture struct {
	api     *fakeapi.Server
	clients *client.Clients
	tokens  *memoryTokens
	monitor *netstate.Switch
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := fakeapi.New()
	api.AddUser(employee, password)
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{API: config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, UploadTimeout: 2 * time.Second}}
	f := &fixture{
		api:     api,
		tokens:  &memoryTokens{},
		monitor: netstate.NewSwitch(netstate.Unknown()),
	}
	f.clients = client.NewClients(cfg, f.tokens, f.monitor, logger.Discard())
	t.Cleanup(f.clients.Close)
	return f
}

func (f *fixture) login(t *testing.T) auth.LoginResponse {
	t.Helper()
	resp, err := f.clients.Auth.Login(context.Background(), auth.LoginRequest{Email: employee.OfficialEmail, Password: password})
	require.NoError(t, err)
	f.tokens.set(resp.Token.AccessToken)
	return resp
}

func apiErr(t *testing.T, err error) *apierror.Error {
	t.Helper()
	require.Error(t, err)
	var e *apierror.Error
	require.True(t, errors.As(err, &e), "expected *apierror.Error, got %T", err)
	return e
}

func TestAuthClient_Login(t *testing.T) {
	f := newFixture(t)

	resp := f.login(t)
	assert.NotEmpty(t, resp.Token.AccessToken)
	assert.NotEmpty(t, resp.Token.RefreshToken)
	assert.Equal(t, employee.EmployeeID, resp.UserObject.EmployeeID)

	req, ok := f.api.LastRequest("/service/auth/login")
	require.True(t, ok)
	assert.Empty(t, req.Authorization)
	assert.NotEmpty(t, req.RequestID)
}

func TestAuthClient_LoginFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("invalid input is not sent", func(t *testing.T) {
		_, err := f.clients.Auth.Login(ctx, auth.LoginRequest{Email: "not-an-email", Password: "123"})
		e := apiErr(t, err)
		assert.Equal(t, apierror.KindClient, e.Kind)
		assert.Equal(t, http.StatusBadRequest, e.Status)
		assert.Contains(t, e.Message, "Please enter a valid email address")
		_, sent := f.api.LastRequest("/service/auth/login")
		assert.False(t, sent)
	})

	t.Run("wrong password uses server message", func(t *testing.T) {
		_, err := f.clients.Auth.Login(ctx, auth.LoginRequest{Email: employee.OfficialEmail, Password: "wrongpass"})
		e := apiErr(t, err)
		assert.Equal(t, http.StatusUnauthorized, e.Status)
		assert.True(t, e.Unauthorized)
		assert.Equal(t, "Invalid email or password", e.Message)
	})
}

func TestAuthClient_PasswordFlows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	msg, err := f.clients.Auth.Forget(ctx, auth.ForgetRequest{Email: employee.OfficialEmail})
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	token := f.api.ResetToken(employee.OfficialEmail)
	require.NotEmpty(t, token)

	_, err = f.clients.Auth.VerifyEmail(ctx, token)
	require.NoError(t, err)
	req, _ := f.api.LastRequest("/service/auth/verify-email")
	assert.Equal(t, "token="+token, req.RawQuery)

	_, err = f.clients.Auth.VerifyOtp(ctx, auth.VerifyOtpRequest{Token: token})
	require.NoError(t, err)

	_, err = f.clients.Auth.ResetPassword(ctx, auth.ResetPasswordRequest{NewPassword: "newsecret", Token: token})
	require.NoError(t, err)

	_, err = f.clients.Auth.Login(ctx, auth.LoginRequest{Email: employee.OfficialEmail, Password: "newsecret"})
	require.NoError(t, err)

	_, err = f.clients.Auth.VerifyEmail(ctx, "")
	assert.Equal(t, http.StatusBadRequest, apiErr(t, err).Status)
}

func TestAuthClient_ChangePasswordNeedsBearer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.clients.Auth.ChangePassword(ctx, auth.ChangePasswordRequest{NewPassword: "changed1"})
	assert.True(t, apiErr(t, err).Unauthorized)

	f.login(t)
	_, err = f.clients.Auth.ChangePassword(ctx, auth.ChangePasswordRequest{NewPassword: "changed1"})
	require.NoError(t, err)
}

func TestAttendanceClient_CreateSendsBearer(t *testing.T) {
	f := newFixture(t)
	resp := f.login(t)
	ctx := context.Background()

	msg, err := f.clients.Attendance.Create(ctx, attendance.CreateRequest{EmpID: employee.EmployeeID, Reason: attendance.ReasonCheckIn})
	require.NoError(t, err)
	assert.Equal(t, "Checked in successfully", msg)

	req, ok := f.api.LastRequest("/service/attendance/create")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+resp.Token.AccessToken, req.Authorization)
	assert.Equal(t, "application/json", req.ContentType)

	_, err = f.clients.Attendance.Create(ctx, attendance.CreateRequest{EmpID: employee.EmployeeID, Reason: attendance.ReasonCheckIn})
	e := apiErr(t, err)
	assert.Equal(t, apierror.KindClient, e.Kind)
	assert.Equal(t, "You have already checked in", e.Message)
	assert.False(t, e.Retryable())
}

func TestAttendanceClient_ServerErrorMessage(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.api.FailNext(http.MethodPost, "/service/attendance/create", http.StatusInternalServerError, "database exploded")

	_, err := f.clients.Attendance.Create(context.Background(), attendance.CreateRequest{EmpID: employee.EmployeeID, Reason: attendance.ReasonCheckIn})
	e := apiErr(t, err)
	assert.Equal(t, apierror.KindServer, e.Kind)
	assert.Equal(t, apierror.MsgServerUnavailable, e.Message)
	assert.True(t, apierror.ShouldRetry(err))
}

func TestAttendanceClient_ReportQuery(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	page, err := f.clients.Attendance.Report(ctx, attendance.ReportParams{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, employee.FullName, page.Items[0].FullName)

	req, _ := f.api.LastRequest("/service/attendance/report")
	assert.Equal(t, "month=3&year=2025", req.RawQuery)

	_, err = f.clients.Attendance.Report(ctx, attendance.ReportParams{Year: 2025, Month: 3, Count: 10, PageNo: 2})
	require.NoError(t, err)
	req, _ = f.api.LastRequest("/service/attendance/report")
	assert.Equal(t, "count=10&month=3&pageNo=2&year=2025", req.RawQuery)
}

func TestAttendanceClient_Stats(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	want := attendance.EmployeeStats{EmployeeID: employee.EmployeeID, OnTimeDays: 18, LateDays: 2, OnLeaveDays: 1}
	f.api.SetStats(employee.ID, want)

	got, err := f.clients.Attendance.EmployeeStats(context.Background(), attendance.StatsParams{Year: 2025, Month: 3, EmpDocID: employee.ID})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 21, got.TotalDays())
}

func TestAttendanceClient_ReportsByEmployee(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	_, err := f.clients.Attendance.Create(ctx, attendance.CreateRequest{EmpID: employee.EmployeeID, Reason: attendance.ReasonCheckIn})
	require.NoError(t, err)

	now := time.Now()
	page, err := f.clients.Attendance.ReportsByEmployee(ctx, employee.ID, attendance.ReportParams{Year: now.Year(), Month: int(now.Month())})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, employee.EmployeeID, page.Items[0].EmpID)

	_, err = f.clients.Attendance.ReportsByEmployee(ctx, " ", attendance.ReportParams{Year: 2025, Month: 1})
	assert.Equal(t, http.StatusBadRequest, apiErr(t, err).Status)
}

func TestLeaveClient(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	req := leave.NewCreateRequest(employee.ID, "sick leave", "2025-03-10", "2025-03-12", "  flu  ")
	msg, err := f.clients.Leave.Create(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)

	stored := f.api.Leaves()
	require.Len(t, stored, 1)
	assert.Equal(t, 3, stored[0].Leaves)
	assert.Equal(t, "flu", stored[0].Reason)
	assert.Equal(t, leave.StatusPending, stored[0].Status)

	mine, err := f.clients.Leave.ListByUser(ctx, employee.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	page, err := f.clients.Leave.List(ctx, attendance.ReportParams{Year: 2025, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = f.clients.Leave.Create(ctx, leave.NewCreateRequest(employee.ID, "sick leave", "2025-03-12", "2025-03-10", "flu"))
	e := apiErr(t, err)
	assert.Contains(t, e.Message, "End date must be after start date")
	assert.Len(t, f.api.Leaves(), 1)
}

func TestUserClient_UploadProfilePic(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	resp, err := f.clients.User.UploadProfilePic(context.Background(), user.Photo{Content: strings.NewReader("jpeg-bytes")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(resp.URL(), "/uploads/profile_"), resp.URL())

	req, _ := f.api.LastRequest("/service/user/uploadProfilePic")
	assert.True(t, strings.HasPrefix(req.ContentType, "multipart/form-data"))

	data, ok := f.api.Upload(strings.TrimPrefix(resp.URL(), "/uploads/"))
	require.True(t, ok)
	assert.Equal(t, "jpeg-bytes", string(data))

	_, err = f.clients.User.UploadProfilePic(context.Background(), user.Photo{})
	assert.Equal(t, apierror.KindClient, apiErr(t, err).Kind)
}

func TestNotificationClient(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	first := f.api.AddNotification(employee.ID, "Leave approved", "Your leave was approved")
	f.api.AddNotification(employee.ID, "Reminder", "Check in before 9")

	list, err := f.clients.Notifications.List(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Your leave was approved", list[0].DisplayMessage())

	count, err := f.clients.Notifications.UnreadCount(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.clients.Notifications.MarkAsRead(ctx, first.ID, employee.ID)
	require.NoError(t, err)
	count, err = f.clients.Notifications.UnreadCount(ctx, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = f.clients.Notifications.Delete(ctx, first.ID, employee.ID)
	require.NoError(t, err)
	_, err = f.clients.Notifications.Delete(ctx, first.ID, employee.ID)
	e := apiErr(t, err)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "Notification not found", e.Message)
}

func TestPushClient(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	err := f.clients.Push.Register(ctx, notification.RegisterPushTokenRequest{FCMToken: "device-1", UserID: employee.ID, EmployeeID: employee.EmployeeID})
	require.NoError(t, err)
	assert.Contains(t, f.api.PushTokens(), "device-1")

	require.NoError(t, f.clients.Push.Revoke(ctx, notification.RevokePushTokenRequest{FCMToken: "device-1", UserID: employee.ID}))
	assert.NotContains(t, f.api.PushTokens(), "device-1")

	err = f.clients.Push.Register(ctx, notification.RegisterPushTokenRequest{UserID: employee.ID})
	assert.Equal(t, apierror.KindClient, apiErr(t, err).Kind)
}

func TestClients_OfflineShortCircuits(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	before := len(f.api.Requests())
	f.monitor.GoOffline()
	ctx := context.Background()

	errs := []error{}
	_, err := f.clients.Attendance.Create(ctx, attendance.CreateRequest{EmpID: employee.EmployeeID, Reason: attendance.ReasonCheckIn})
	errs = append(errs, err)
	_, err = f.clients.Notifications.List(ctx, employee.ID)
	errs = append(errs, err)
	_, err = f.clients.Auth.Forget(ctx, auth.ForgetRequest{Email: employee.OfficialEmail})
	errs = append(errs, err)

	for _, err := range errs {
		e := apiErr(t, err)
		assert.Equal(t, apierror.KindNetwork, e.Kind)
		assert.Equal(t, apierror.MsgNoInternet, e.Message)
	}
	assert.Len(t, f.api.Requests(), before)
}

func TestClients_GoingOfflineCancelsInFlight(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.Stall(http.MethodGet, "/service/notifications/unread-count/"+employee.ID)

	done := make(chan error, 1)
	go func() {
		_, err := f.clients.Notifications.UnreadCount(context.Background(), employee.ID)
		done <- err
	}()

	select {
	case <-f.api.Arrivals():
	case <-time.After(2 * time.Second):
		t.Fatal("request never reached the server")
	}
	f.monitor.GoOffline()

	select {
	case err := <-done:
		assert.Equal(t, apierror.KindNetwork, apiErr(t, err).Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request was not cancelled")
	}
}
