package disable_slots_by_date

import (
	"context"

	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

type DisableSlotsUseCase interface {
	ExecuteByDate(ctx context.Context, req *disableSlots.ByDateRequest) (*disableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
