package user

import "time"

// Profile is the authenticated employee's record, cached verbatim from the
// login response.
type Profile struct {
	ID                     string           `json:"_id"`
	EmployeeID             string           `json:"employeeId"`
	FullName               string           `json:"fullName"`
	OfficialEmail          string           `json:"officialEmail"`
	PersonalEmail          string           `json:"personalEmail"`
	ContactNumber          string           `json:"contactNumber"`
	EmergencyContactNumber string           `json:"emergencyContactNumber"`
	Address                string           `json:"address"`
	Position               string           `json:"position"`
	Role                   string           `json:"role"`
	BankAccount            string           `json:"bankAccount"`
	GuardianName           string           `json:"guardianName"`
	ProfilePhotoURL        string           `json:"profilePhotoUrl"`
	IsActive               bool             `json:"isActive"`
	ScheduleID             string           `json:"scheduleId"`
	CustomSchedule         []CustomSchedule `json:"customSchedule"`
	CreatedAt              time.Time        `json:"createdAt"`
	UpdatedAt              time.Time        `json:"updatedAt"`
}

type CustomSchedule struct {
	Day          string `json:"day"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
	IsWorkingDay bool   `json:"isWorkingDay"`
}

// DisplayName falls back to the official email when the name is blank.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.OfficialEmail != "" {
		return p.OfficialEmail
	}
	return "User"
}
