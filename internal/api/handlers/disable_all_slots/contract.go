package disable_all_slots

import (
	"context"

	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

type DisableSlotsUseCase interface {
	ExecuteAll(ctx context.Context, req *disableSlots.AllRequest) (*disableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
