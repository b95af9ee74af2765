package fakeapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = user.Profile{
	ID:            "u-1",
	EmployeeID:    "EMP-001",
	FullName:      "Dana Putri",
	OfficialEmail: "dana@example.com",
}

type rawEnvelope struct {
	IsSuccess  bool            `json:"isSuccess"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	TotalCount int             `json:"totalCount"`
}

func do(t *testing.T, h http.Handler, method, path, token string, body any) (int, rawEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env rawEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	code, env := do(t, h, http.MethodPost, "/service/auth/login", "", auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "secret123"})
	require.Equal(t, http.StatusOK, code)
	var data auth.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Token.AccessToken
}

func TestLogin(t *testing.T) {
	s := New()
	s.AddUser(testProfile, "secret123")
	h := s.Handler()

	t.Run("valid credentials", func(t *testing.T) {
		code, env := do(t, h, http.MethodPost, "/service/auth/login", "", auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "secret123"})
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, env.IsSuccess)

		var data auth.LoginResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.NotEmpty(t, data.Token.AccessToken)
		assert.NotEmpty(t, data.Token.RefreshToken)
		assert.Equal(t, testProfile.EmployeeID, data.UserObject.EmployeeID)
	})

	t.Run("wrong password", func(t *testing.T) {
		code, env := do(t, h, http.MethodPost, "/service/auth/login", "", auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "wrongpass"})
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.False(t, env.IsSuccess)
		assert.Equal(t, "Invalid email or password", env.Message)
	})
}

func TestProtectedRoutesRequireAccessToken(t *testing.T) {
	s := New()
	s.AddUser(testProfile, "secret123")
	h := s.Handler()

	code, _ := do(t, h, http.MethodGet, "/service/notifications/unread-count/u-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, h, http.MethodGet, "/service/notifications/unread-count/u-1", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, h, http.MethodGet, "/service/notifications/unread-count/u-1", login(t, h), nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestCreateAttendance_Toggle(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 5, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return now }))
	s.AddUser(testProfile, "secret123")
	h := s.Handler()
	token := login(t, h)

	checkIn := attendance.CreateRequest{EmpID: "EMP-001", Reason: attendance.ReasonCheckIn}
	checkOut := attendance.CreateRequest{EmpID: "EMP-001", Reason: attendance.ReasonCheckOut}

	_, env := do(t, h, http.MethodPost, "/service/attendance/create", token, checkIn)
	assert.True(t, env.IsSuccess)
	assert.Equal(t, "Checked in successfully", env.Message)

	code, env := do(t, h, http.MethodPost, "/service/attendance/create", token, checkIn)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, env.IsSuccess)
	assert.Equal(t, "You have already checked in", env.Message)

	now = now.Add(8 * time.Hour)
	_, env = do(t, h, http.MethodPost, "/service/attendance/create", token, checkOut)
	assert.True(t, env.IsSuccess)

	records := s.Attendance()
	require.Len(t, records, 1)
	assert.Equal(t, "09:05", records[0].TimeIn)
	assert.Equal(t, "17:05", records[0].TimeOut)
}

func TestReport_Paginates(t *testing.T) {
	s := New()
	for _, p := range []user.Profile{
		{ID: "u-1", EmployeeID: "E1", OfficialEmail: "a@example.com"},
		{ID: "u-2", EmployeeID: "E2", OfficialEmail: "b@example.com"},
		{ID: "u-3", EmployeeID: "E3", OfficialEmail: "c@example.com"},
	} {
		s.AddUser(p, "secret123")
	}
	s.AddUser(testProfile, "secret123")
	h := s.Handler()
	token := login(t, h)

	_, env := do(t, h, http.MethodGet, "/service/attendance/report?year=2025&month=3&count=3&pageNo=2", token, nil)
	require.True(t, env.IsSuccess)
	assert.Equal(t, 4, env.TotalCount)

	var rows []attendance.EmployeeReport
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	assert.Len(t, rows, 1)

	code, _ := do(t, h, http.MethodGet, "/service/attendance/report?year=2025&month=13", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestFailNext(t *testing.T) {
	s := New()
	h := s.Handler()

	s.FailNext(http.MethodPost, "/service/auth/forget", http.StatusInternalServerError, "")

	code, env := do(t, h, http.MethodPost, "/service/auth/forget", "", auth.ForgetRequest{Email: "x@example.com"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.IsSuccess)

	code, _ = do(t, h, http.MethodPost, "/service/auth/forget", "", auth.ForgetRequest{Email: "x@example.com"})
	assert.Equal(t, http.StatusOK, code)
}

func TestForgetAndReset(t *testing.T) {
	s := New()
	s.AddUser(testProfile, "secret123")
	h := s.Handler()

	_, env := do(t, h, http.MethodPost, "/service/auth/forget", "", auth.ForgetRequest{Email: testProfile.OfficialEmail})
	require.True(t, env.IsSuccess)
	token := s.ResetToken(testProfile.OfficialEmail)
	require.NotEmpty(t, token)

	_, env = do(t, h, http.MethodPost, "/service/auth/restPassword", "", auth.ResetPasswordRequest{NewPassword: "newsecret", Token: token})
	require.True(t, env.IsSuccess)

	code, _ := do(t, h, http.MethodPost, "/service/auth/login", "", auth.LoginRequest{Email: testProfile.OfficialEmail, Password: "newsecret"})
	assert.Equal(t, http.StatusOK, code)

	code, _ = do(t, h, http.MethodPost, "/service/auth/restPassword", "", auth.ResetPasswordRequest{NewPassword: "another1", Token: token})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRequestsAreRecorded(t *testing.T) {
	s := New()
	h := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/service/auth/verify-email?token=abc", nil)
	req.Header.Set("X-Request-ID", "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	got, ok := s.LastRequest("/service/auth/verify-email")
	require.True(t, ok)
	assert.Equal(t, "token=abc", got.RawQuery)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Empty(t, got.Authorization)
}

func TestPaginate(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	cases := []struct {
		name   string
		params attendance.ReportParams
		want   []int
	}{
		{"no window", attendance.ReportParams{}, rows},
		{"first page", attendance.ReportParams{Count: 2}, []int{1, 2}},
		{"last partial page", attendance.ReportParams{Count: 2, PageNo: 3}, []int{5}},
		{"past the end", attendance.ReportParams{Count: 2, PageNo: 9}, []int{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, paginate(rows, tc.params))
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	h := New(WithAllowedOrigins("http://localhost:8081")).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/service/attendance/create", nil)
	req.Header.Set("Origin", "http://localhost:8081")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:8081", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/service/attendance/create", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
