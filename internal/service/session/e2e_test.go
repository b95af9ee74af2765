package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/client"
	"github.com/cmlabs-hris/hris-client-go/internal/config"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/apierror"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/fakeapi"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/logger"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/navigation"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/netstate"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/push"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-client-go/internal/service/localstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type app struct {
	api     *fakeapi.Server
	store   *localstate.Store
	clients *client.Clients
	monitor *netstate.Switch
	nav     *navigation.Stack
	session *Orchestrator
}

func newApp(t *testing.T) *app {
	t.Helper()
	api := fakeapi.New()
	api.AddUser(testProfile, "secret123")
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		API:  config.APIConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, UploadTimeout: 2 * time.Second},
		Auth: testKeys,
	}
	a := &app{
		api:     api,
		store:   localstate.New(storage.NewMemoryStorage(), cfg.Auth),
		monitor: netstate.NewSwitch(netstate.Unknown()),
		nav:     navigation.NewStack(),
	}
	a.clients = client.NewClients(cfg, a.store, a.monitor, logger.Discard())
	t.Cleanup(a.clients.Close)
	a.session = NewOrchestrator(a.store, a.clients.Auth, a.clients.Push, push.Static{Token: "device-1"}, a.nav, logger.Discard())
	return a
}

func TestEndToEnd_LoginThenServerError(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)
	stop := a.session.Start(ctx)
	defer stop()
	require.Equal(t, navigation.Welcome, a.nav.Current())

	_, err := a.session.Login(ctx, auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, navigation.Dashboard, a.nav.Current())
	assert.Contains(t, a.api.PushTokens(), "device-1")

	token, err := a.store.AccessToken(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = a.clients.Attendance.Create(ctx, attendance.CreateRequest{EmpID: testProfile.EmployeeID, Reason: attendance.ReasonCheckIn})
	require.NoError(t, err)
	req, ok := a.api.LastRequest("/service/attendance/create")
	require.True(t, ok)
	assert.Equal(t, "Bearer "+token, req.Authorization)

	a.api.FailNext(http.MethodPost, "/service/attendance/create", http.StatusInternalServerError, "")
	_, err = a.clients.Attendance.Create(ctx, attendance.CreateRequest{EmpID: testProfile.EmployeeID, Reason: attendance.ReasonCheckOut})

	var e *apierror.Error
	require.True(t, errors.As(err, &e))
	assert.True(t, e.IsServerError)
	assert.Equal(t, "Server is temporarily unavailable. Please try again later.", e.Message)
}

func TestEndToEnd_Offline(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)
	_, err := a.session.Login(ctx, auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "secret123"})
	require.NoError(t, err)

	a.monitor.Set(netstate.State{IsConnected: netstate.Bool(false), Type: "none"})

	_, err = a.clients.Notifications.UnreadCount(ctx, testProfile.ID)
	var e *apierror.Error
	require.True(t, errors.As(err, &e))
	assert.True(t, e.IsNetworkError)
	assert.Equal(t, "No internet connection. Please check your network and try again.", e.Message)

	_, err = a.clients.Leave.ListByUser(ctx, testProfile.ID)
	require.True(t, errors.As(err, &e))
	assert.True(t, e.IsNetworkError)
}

func TestEndToEnd_LogoutRevokesPushToken(t *testing.T) {
	ctx := context.Background()
	a := newApp(t)
	_, err := a.session.Login(ctx, auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "secret123"})
	require.NoError(t, err)
	require.Contains(t, a.api.PushTokens(), "device-1")

	require.NoError(t, a.session.Logout(ctx))
	assert.NotContains(t, a.api.PushTokens(), "device-1")

	_, err = a.clients.Notifications.UnreadCount(ctx, testProfile.ID)
	var e *apierror.Error
	require.True(t, errors.As(err, &e))
	assert.True(t, e.Unauthorized)

	req, _ := a.api.LastRequest("/service/notifications/unread-count/" + testProfile.ID)
	assert.Empty(t, req.Authorization)
}
