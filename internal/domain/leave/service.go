package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-client-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-client-go/internal/pkg/httpclient"
)

// Client is the leave-management part of the attendance API.
type Client interface {
	Create(ctx context.Context, req CreateRequest) (string, error)
	List(ctx context.Context, params attendance.ReportParams) (httpclient.Page[Leave], error)
	ListByUser(ctx context.Context, userID string) ([]Leave, error)
}
