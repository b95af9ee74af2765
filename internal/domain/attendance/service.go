package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

// Client is the attendance domain of the backend API.
type Client interface {
	// Create records a check-in or check-out and returns the server message
	Create(ctx context.Context, req CreateRequest) (string, error)
	Report(ctx context.Context, params ReportParams) (httpclient.Page[EmployeeReport], error)
	EmployeeStats(ctx context.Context, params StatsParams) (EmployeeStats, error)
	ReportsByEmployee(ctx context.Context, empDocID string, params ReportParams) (httpclient.Page[Record], error)
}

// Service is the attendance flow a screen runs.
type Service interface {
	// Toggle confirms with biometrics, then checks in or out depending on
	// the stored snapshot.
	Toggle(ctx context.Context) (ToggleResult, error)
	// Stats returns the month's statistics for the logged-in employee.
	Stats(ctx context.Context, year, month int) (EmployeeStats, error)
	// CurrentSession returns the stored snapshot.
	CurrentSession(ctx context.Context) (Session, error)
}
