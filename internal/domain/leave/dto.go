package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/validator"
)

type CreateRequest struct {
	EmpDocID  string `json:"empDocId"`
	LeaveType string `json:"leaveType"`
	Leaves    int    `json:"leaves"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`
	Status    Status `json:"status"`
}

// NewCreateRequest builds a pending request, counting both ends of the
// range as leave days.
func NewCreateRequest(empDocID, leaveType, startDate, endDate, reason string) CreateRequest {
	return CreateRequest{
		EmpDocID:  empDocID,
		LeaveType: leaveType,
		Leaves:    Days(startDate, endDate),
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    strings.TrimSpace(reason),
		Status:    StatusPending,
	}
}

// Days returns the inclusive number of days between two dates, or 0 when
// either does not parse.
func Days(startDate, endDate string) int {
	start, ok := validator.IsValidDate(startDate)
	if !ok {
		return 0
	}
	end, ok := validator.IsValidDate(endDate)
	if !ok {
		return 0
	}
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(diff/(24*time.Hour)) + 1
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmpDocID) {
		errs.Add("empDocId", "empDocId is required")
	}
	if validator.IsEmpty(r.LeaveType) {
		errs.Add("leaveType", "Please select a leave type")
	}
	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "Reason is required")
	}
	if r.Leaves <= 0 {
		errs.Add("leaves", "leaves must be greater than 0")
	}
	if r.Status != "" && !validator.IsInSlice(string(r.Status), []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}) {
		errs.Add("status", "status must be pending, approved or rejected")
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs.Add("startDate", "startDate must be in YYYY-MM-DD format")
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs.Add("endDate", "endDate must be in YYYY-MM-DD format")
	}
	if startOK && endOK && start.After(end) {
		errs.Add("endDate", "End date must be after start date")
	}

	return errs.Err()
}
