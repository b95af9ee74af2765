package fakeapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-client-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func newID() string {
	return uuid.NewString()
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(req.Password)) != nil {
		handleError(w, errInvalidCredentials)
		return
	}

	access, refresh, err := s.issueTokens(acc.profile.ID, acc.profile.OfficialEmail, acc.profile.EmployeeID)
	if err != nil {
		handleError(w, err)
		return
	}
	success(w, "Login successful", auth.LoginResponse{
		Token:      auth.TokenPair{AccessToken: access, RefreshToken: refresh},
		UserObject: acc.profile,
	})
}

func (s *Server) forget(w http.ResponseWriter, r *http.Request) {
	var req auth.ForgetRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	if _, ok := s.accounts[req.Email]; ok {
		s.resetTokens[newID()] = req.Email
	}
	s.mu.Unlock()
	success(w, "If the email exists, a reset link has been sent", nil)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	email, ok := s.resetTokens[req.Token]
	if !ok {
		fail(w, http.StatusBadRequest, errInvalidToken.Error())
		return
	}
	if err := s.setPasswordLocked(email, req.NewPassword); err != nil {
		handleError(w, err)
		return
	}
	delete(s.resetTokens, req.Token)
	success(w, "Password has been reset", nil)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req auth.ChangePasswordRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accountByIDLocked(userIDFromRequest(r))
	if acc == nil {
		handleError(w, errUserNotFound)
		return
	}
	if err := s.setPasswordLocked(acc.profile.OfficialEmail, req.NewPassword); err != nil {
		handleError(w, err)
		return
	}
	success(w, "Password changed successfully", nil)
}

func (s *Server) verifyEmail(w http.ResponseWriter, r *http.Request) {
	s.verifyToken(w, r.URL.Query().Get("token"), "Email verified successfully")
}

func (s *Server) verifyOtp(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOtpRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	s.verifyToken(w, req.Token, "OTP verified")
}

func (s *Server) verifyToken(w http.ResponseWriter, token, message string) {
	s.mu.Lock()
	_, ok := s.resetTokens[token]
	s.mu.Unlock()
	if !ok {
		fail(w, http.StatusBadRequest, errInvalidToken.Error())
		return
	}
	success(w, message, nil)
}

func (s *Server) createAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accountByIDLocked(userIDFromRequest(r))
	if acc == nil || acc.profile.EmployeeID != req.EmpID {
		handleError(w, errUserNotFound)
		return
	}

	open := s.openRecordLocked(req.EmpID)
	now := s.now()
	switch req.Reason {
	case attendance.ReasonCheckIn:
		if open >= 0 {
			handleError(w, errAlreadyCheckedIn)
			return
		}
		rec := attendance.Record{
			ID:        newID(),
			EmpID:     req.EmpID,
			EmpDocID:  acc.profile.ID,
			Reason:    string(req.Reason),
			Status:    attendance.StatusPresent,
			TimeIn:    now.Format(attendance.CheckInTimeLayout),
			CreatedAt: now,
		}
		s.attendance = append(s.attendance, rec)
		success(w, "Checked in successfully", rec)
	case attendance.ReasonCheckOut:
		if open < 0 {
			handleError(w, errNotCheckedIn)
			return
		}
		s.attendance[open].TimeOut = now.Format(attendance.CheckInTimeLayout)
		s.attendance[open].UpdatedAt = &now
		success(w, "Checked out successfully", s.attendance[open])
	}
}

func (s *Server) openRecordLocked(empID string) int {
	for i := len(s.attendance) - 1; i >= 0; i-- {
		if s.attendance[i].EmpID == empID {
			if s.attendance[i].TimeOut == "" {
				return i
			}
			return -1
		}
	}
	return -1
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	params, err := reportParams(r)
	if err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	var rows []attendance.EmployeeReport
	for _, acc := range s.accounts {
		rows = append(rows, attendance.EmployeeReport{
			ID:            acc.profile.ID,
			FullName:      acc.profile.FullName,
			OfficialEmail: acc.profile.OfficialEmail,
			Position:      acc.profile.Position,
			Attendance:    s.recordsLocked(acc.profile.ID, params),
		})
	}
	s.mu.Unlock()

	total := len(rows)
	successList(w, "Report fetched successfully", paginate(rows, params), total)
}

func (s *Server) reportsByEmployee(w http.ResponseWriter, r *http.Request) {
	params, err := reportParams(r)
	if err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	records := s.recordsLocked(chi.URLParam(r, "empDocId"), params)
	s.mu.Unlock()

	successList(w, "Attendance fetched successfully", paginate(records, params), len(records))
}

func (s *Server) employeeStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := attendance.StatsParams{EmpDocID: q.Get("empDocId")}
	params.Year, _ = strconv.Atoi(q.Get("year"))
	params.Month, _ = strconv.Atoi(q.Get("month"))
	if err := params.Validate(); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if stats, ok := s.stats[params.EmpDocID]; ok {
		success(w, "Stats fetched successfully", stats)
		return
	}

	acc := s.accountByIDLocked(params.EmpDocID)
	if acc == nil {
		handleError(w, errUserNotFound)
		return
	}
	stats := attendance.EmployeeStats{EmployeeID: acc.profile.EmployeeID, AssignedSchedule: acc.profile.ScheduleID}
	for _, rec := range s.recordsLocked(params.EmpDocID, attendance.ReportParams{Year: params.Year, Month: params.Month}) {
		switch rec.Status {
		case attendance.StatusLate:
			stats.LateDays++
		case attendance.StatusAbsent:
			stats.AbsentDays++
		default:
			stats.OnTimeDays++
		}
	}
	for _, l := range s.leaves {
		if l.EmpDocID == params.EmpDocID && l.Status == leave.StatusApproved {
			stats.OnLeaveDays += l.Leaves
		}
	}
	success(w, "Stats fetched successfully", stats)
}

func (s *Server) createLeave(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		handleError(w, err)
		return
	}

	now := s.now()
	l := leave.Leave{
		ID:        newID(),
		EmpDocID:  req.EmpDocID,
		LeaveType: req.LeaveType,
		Leaves:    req.Leaves,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    req.Status,
		CreatedAt: &now,
	}
	s.mu.Lock()
	s.leaves = append(s.leaves, l)
	s.mu.Unlock()

	success(w, "Leave request submitted successfully", l)
}

func (s *Server) listLeaves(w http.ResponseWriter, r *http.Request) {
	params, err := reportParams(r)
	if err != nil {
		handleError(w, err)
		return
	}
	s.mu.Lock()
	leaves := append([]leave.Leave(nil), s.leaves...)
	s.mu.Unlock()

	successList(w, "Leaves fetched successfully", paginate(leaves, params), len(leaves))
}

func (s *Server) listLeavesByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	s.mu.Lock()
	leaves := []leave.Leave{}
	for _, l := range s.leaves {
		if l.EmpDocID == userID {
			leaves = append(leaves, l)
		}
	}
	s.mu.Unlock()

	successList(w, "Leaves fetched successfully", leaves, len(leaves))
}

func (s *Server) uploadProfilePic(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile(user.PhotoFieldName)
	if err != nil {
		handleError(w, errMissingFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handleError(w, err)
		return
	}

	url := "/uploads/" + header.Filename

	s.mu.Lock()
	s.uploads[header.Filename] = data
	if acc := s.accountByIDLocked(userIDFromRequest(r)); acc != nil {
		acc.profile.ProfilePhotoURL = url
	}
	s.mu.Unlock()

	success(w, "Profile picture uploaded", user.UploadPhotoResponse{ProfilePhotoURL: url, FileURL: url})
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	s.mu.Lock()
	list := append([]notification.Notification{}, s.notifications[userID]...)
	s.mu.Unlock()

	successList(w, "Notifications fetched successfully", list, len(list))
}

func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	s.withNotification(w, r, func(list []notification.Notification, i int) []notification.Notification {
		list[i].IsRead = true
		return list
	}, "Notification marked as read")
}

func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	s.withNotification(w, r, func(list []notification.Notification, i int) []notification.Notification {
		return append(list[:i], list[i+1:]...)
	}, "Notification deleted successfully")
}

func (s *Server) withNotification(w http.ResponseWriter, r *http.Request, apply func([]notification.Notification, int) []notification.Notification, message string) {
	userID := chi.URLParam(r, "userId")
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[userID]
	for i := range list {
		if list[i].ID == id {
			s.notifications[userID] = apply(list, i)
			success(w, message, nil)
			return
		}
	}
	handleError(w, errNotificationFound)
}

func (s *Server) unreadCount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	s.mu.Lock()
	count := len(notification.Unread(s.notifications[userID]))
	s.mu.Unlock()

	success(w, "Unread count fetched successfully", notification.UnreadCountResponse{Count: count})
}

func (s *Server) registerPushToken(w http.ResponseWriter, r *http.Request) {
	var req notification.RegisterPushTokenRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}
	if validator.IsEmpty(req.FCMToken) {
		handleError(w, validator.ValidationErrors{{Field: "fcmToken", Message: "fcmToken is required"}})
		return
	}

	s.mu.Lock()
	s.pushTokens[req.FCMToken] = req
	s.mu.Unlock()
	success(w, "FCM token saved", nil)
}

func (s *Server) revokePushToken(w http.ResponseWriter, r *http.Request) {
	var req notification.RevokePushTokenRequest
	if err := decode(r, &req); err != nil {
		handleError(w, err)
		return
	}

	s.mu.Lock()
	delete(s.pushTokens, req.FCMToken)
	s.mu.Unlock()
	success(w, "FCM token removed", nil)
}

func (s *Server) accountByIDLocked(id string) *account {
	if id == "" {
		return nil
	}
	for _, acc := range s.accounts {
		if acc.profile.ID == id {
			return acc
		}
	}
	return nil
}

func (s *Server) setPasswordLocked(email, password string) error {
	acc, ok := s.accounts[email]
	if !ok {
		return errUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	acc.passwordHash = hash
	return nil
}

func (s *Server) recordsLocked(empDocID string, params attendance.ReportParams) []attendance.Record {
	records := []attendance.Record{}
	for _, rec := range s.attendance {
		if rec.EmpDocID != empDocID {
			continue
		}
		if params.Year != 0 && (rec.CreatedAt.Year() != params.Year || int(rec.CreatedAt.Month()) != params.Month) {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func reportParams(r *http.Request) (attendance.ReportParams, error) {
	q := r.URL.Query()
	var params attendance.ReportParams
	params.Year, _ = strconv.Atoi(q.Get("year"))
	params.Month, _ = strconv.Atoi(q.Get("month"))
	params.Count, _ = strconv.Atoi(q.Get("count"))
	params.PageNo, _ = strconv.Atoi(q.Get("pageNo"))
	return params, params.Validate()
}

// paginate applies count/pageNo; both absent means the whole window.
func paginate[T any](rows []T, params attendance.ReportParams) []T {
	if rows == nil {
		rows = []T{}
	}
	if params.Count <= 0 {
		return rows
	}
	page := params.PageNo
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * params.Count
	if start >= len(rows) {
		return []T{}
	}
	end := start + params.Count
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
