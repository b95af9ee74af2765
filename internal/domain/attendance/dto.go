package attendance

import "github.com/cmlabs-hris/hris-client-go/internal/pkg/validator"

type CreateRequest struct {
	EmpID  string `json:"empId"`
	Reason Reason `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmpID) {
		errs.Add("empId", "empId is required")
	}
	if r.Reason != ReasonCheckIn && r.Reason != ReasonCheckOut {
		errs.Add("reason", "reason must be CHECK_IN or CHECK_OUT")
	}

	return errs.Err()
}

// ReportParams is the uniform pagination window. Zero Count and PageNo mean
// the server default page.
type ReportParams struct {
	Year   int `url:"year"`
	Month  int `url:"month"`
	Count  int `url:"count,omitempty"`
	PageNo int `url:"pageNo,omitempty"`
}

func (p *ReportParams) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(&errs, p.Year, p.Month)
	if p.Count < 0 {
		errs.Add("count", "count must not be negative")
	}
	if p.PageNo < 0 {
		errs.Add("pageNo", "pageNo must not be negative")
	}
	return errs.Err()
}

type StatsParams struct {
	Year     int    `url:"year"`
	Month    int    `url:"month"`
	EmpDocID string `url:"empDocId"`
}

func (p *StatsParams) Validate() error {
	var errs validator.ValidationErrors
	validatePeriod(&errs, p.Year, p.Month)
	if validator.IsEmpty(p.EmpDocID) {
		errs.Add("empDocId", "empDocId is required")
	}
	return errs.Err()
}

func validatePeriod(errs *validator.ValidationErrors, year, month int) {
	if year < 2000 || year > 9999 {
		errs.Add("year", "year must be a four digit year")
	}
	if month < 1 || month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}
}

// ToggleResult is the snapshot after a toggle and the message to show.
type ToggleResult struct {
	Session Session
	Message string
}
