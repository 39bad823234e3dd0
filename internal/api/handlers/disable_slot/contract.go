package disable_slot

import (
	"context"

	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

type DisableSlotsUseCase interface {
	ExecuteSingle(ctx context.Context, req *disableSlots.SingleRequest) (*disableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
