package live_update_slot

import (
	"context"

	liveUpdate "github.com/m04kA/SMC-ClinicService/internal/usecase/live_update_slot"
)

type LiveUpdateUseCase interface {
	Execute(ctx context.Context, req *liveUpdate.Request) (*liveUpdate.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
