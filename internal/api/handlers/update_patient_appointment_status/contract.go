package update_patient_appointment_status

import (
	"context"

	updateStatus "github.com/m04kA/SMC-ClinicService/internal/usecase/update_appointment_status"
)

type UpdateStatusUseCase interface {
	ExecutePatient(ctx context.Context, req *updateStatus.PatientRequest) (*updateStatus.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
