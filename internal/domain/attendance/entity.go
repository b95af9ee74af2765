package attendance

import (
	"fmt"
	"time"
)

// Reason is the attendance action sent to the backend.
type Reason string

const (
	ReasonCheckIn  Reason = "CHECK_IN"
	ReasonCheckOut Reason = "CHECK_OUT"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
)

// CheckInTimeLayout is how the check-in time is shown and stored.
const CheckInTimeLayout = "15:04"

// Record is one attendance entry as returned by the reports.
type Record struct {
	ID        string     `json:"_id"`
	EmpID     string     `json:"empId"`
	EmpDocID  string     `json:"empDocId"`
	Reason    string     `json:"reason"`
	Status    Status     `json:"status"`
	TimeIn    string     `json:"timeIn"`
	TimeOut   string     `json:"timeOut,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// EmployeeReport groups an employee's records for the monthly report.
type EmployeeReport struct {
	ID            string   `json:"_id"`
	FullName      string   `json:"fullName"`
	OfficialEmail string   `json:"officialEmail"`
	Position      string   `json:"position"`
	Attendance    []Record `json:"attendance"`
}

type EmployeeStats struct {
	EmployeeID       string `json:"employeeId"`
	AssignedSchedule string `json:"assignedSchedule"`
	OnTimeDays       int    `json:"onTimeDays"`
	LateDays         int    `json:"lateDays"`
	OnLeaveDays      int    `json:"onLeaveDays"`
	AbsentDays       int    `json:"absentDays"`
}

func (s EmployeeStats) TotalDays() int {
	return s.OnTimeDays + s.LateDays + s.OnLeaveDays + s.AbsentDays
}

// Session is the locally persisted "am I checked in" snapshot, used to
// restore state after a restart without asking the server.
type Session struct {
	IsCheckedIn      bool       `json:"isCheckedIn"`
	CheckInTime      string     `json:"checkInTime"`
	CheckInTimestamp *time.Time `json:"checkInTimestamp"`
	WorkedTime       string     `json:"workedTime"`
}

// NextReason is the action the toggle will send.
func (s Session) NextReason() Reason {
	if s.IsCheckedIn {
		return ReasonCheckOut
	}
	return ReasonCheckIn
}

// CheckIn returns the snapshot after a successful check-in at now.
func (s Session) CheckIn(now time.Time) Session {
	s.IsCheckedIn = true
	s.CheckInTime = now.Format(CheckInTimeLayout)
	s.CheckInTimestamp = &now
	return s
}

// CheckOut returns the snapshot after a successful check-out at now. The
// worked time is only computed when the check-in timestamp is known.
func (s Session) CheckOut(now time.Time) Session {
	s.IsCheckedIn = false
	if s.CheckInTimestamp != nil {
		s.WorkedTime = FormatWorked(now.Sub(*s.CheckInTimestamp))
		s.CheckInTimestamp = nil
	}
	return s
}

// FormatWorked renders d as "<h>h <m>m".
func FormatWorked(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
