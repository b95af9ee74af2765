package leave

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Types lists the leave types offered when applying.
var Types = []string{
	"annual leave",
	"sick leave",
	"casual leave",
	"maternity leave",
	"paternity leave",
	"emergency leave",
}

type Leave struct {
	ID        string     `json:"_id"`
	EmpDocID  string     `json:"empDocId"`
	LeaveType string     `json:"leaveType"`
	Leaves    int        `json:"leaves"`
	StartDate string     `json:"startDate"`
	EndDate   string     `json:"endDate"`
	Reason    string     `json:"reason"`
	Status    Status     `json:"status"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// FilterByStatus keeps leaves whose status matches, ignoring case. An
// empty status keeps everything.
func FilterByStatus(leaves []Leave, status Status) []Leave {
	if status == "" {
		return leaves
	}
	out := make([]Leave, 0, len(leaves))
	for _, l := range leaves {
		if strings.EqualFold(string(l.Status), string(status)) {
			out = append(out, l)
		}
	}
	return out
}
