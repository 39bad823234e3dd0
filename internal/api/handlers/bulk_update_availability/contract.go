package bulk_update_availability

import (
	"context"

	bulkUpdate "github.com/m04kA/SMC-ClinicService/internal/usecase/bulk_update_availability"
)

type BulkUpdateUseCase interface {
	Execute(ctx context.Context, req *bulkUpdate.Request) (*bulkUpdate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
