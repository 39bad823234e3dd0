package update_patient_appointment_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	updateStatus "github.com/m04kA/SMC-ClinicService/internal/usecase/update_appointment_status"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgUnauthorized         = "не удалось определить пользователя"
	msgAppointmentNotFound  = "запись не найдена"
	msgAccessDenied         = "запись принадлежит другому пациенту"
	msgInvalidStatus        = "недопустимый статус, ожидается cancelled или rescheduled"
	msgNotActive            = "запись уже не активна"
	msgTooLate              = "до начала приема меньше часа, изменение невозможно"
	msgSlotBusy             = "слот занят другим запросом, попробуйте еще раз"
)

type Handler struct {
	useCase UpdateStatusUseCase
	logger  Logger
}

func NewHandler(useCase UpdateStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/patient/{appointmentId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /appointments/patient/status - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	appointmentID, err := strconv.ParseInt(mux.Vars(r)["appointmentId"], 10, 64)
	if err != nil || appointmentID <= 0 {
		h.logger.Warn("PATCH /appointments/patient/status - Invalid appointment ID: %s", mux.Vars(r)["appointmentId"])
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/patient/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ExecutePatient(r.Context(), &updateStatus.PatientRequest{
		AppointmentID: appointmentID,
		PatientID:     userID,
		Status:        req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, updateStatus.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/patient/status - Not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, updateStatus.ErrForbidden):
			h.logger.Warn("PATCH /appointments/patient/status - Access denied: appointment_id=%d, user_id=%d",
				appointmentID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, updateStatus.ErrInvalidStatus), errors.Is(err, updateStatus.ErrInvalidInput):
			h.logger.Warn("PATCH /appointments/patient/status - Invalid status: %s", req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, updateStatus.ErrNotActive):
			h.logger.Warn("PATCH /appointments/patient/status - Not active: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, updateStatus.ErrTooLate):
			h.logger.Warn("PATCH /appointments/patient/status - Too late: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgTooLate)

		case errors.Is(err, updateStatus.ErrSlotBusy):
			h.logger.Warn("PATCH /appointments/patient/status - Slot busy: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("PATCH /appointments/patient/status - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /appointments/patient/status - Updated: appointment_id=%d, status=%s",
		appointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
