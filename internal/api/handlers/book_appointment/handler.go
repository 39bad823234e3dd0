package book_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	bookAppointment "github.com/m04kA/SMC-ClinicService/internal/usecase/book_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgUnauthorized       = "не удалось определить пользователя"
	msgSlotNotFound       = "слот не найден"
	msgPatientNotFound    = "пациент не найден"
	msgBookingClosed      = "запись в этот слот сейчас закрыта"
	msgAlreadyBooked      = "у вас уже есть запись в этот слот"
	msgSlotFull           = "слот заполнен, запись в будущие слоты недоступна"
	msgNoFutureSlot       = "нет доступных будущих слотов для записи"
	msgSlotBusy           = "слот занят другим запросом, попробуйте еще раз"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase BookAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase BookAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req BookAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(patientID))
	if err != nil {
		switch {
		case errors.Is(err, bookAppointment.ErrSlotNotFound):
			h.logger.Warn("POST /appointments - Slot not found: slot_id=%d", req.SlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, bookAppointment.ErrPatientNotFound):
			h.logger.Warn("POST /appointments - Patient not found: patient_id=%d", patientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		case errors.Is(err, bookAppointment.ErrBookingClosed):
			h.logger.Warn("POST /appointments - Booking closed: slot_id=%d", req.SlotID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgBookingClosed)

		case errors.Is(err, bookAppointment.ErrAlreadyBooked):
			h.logger.Warn("POST /appointments - Already booked: slot_id=%d, patient_id=%d", req.SlotID, patientID)
			handlers.RespondConflict(w, msgAlreadyBooked)

		case errors.Is(err, bookAppointment.ErrSlotFull):
			h.logger.Warn("POST /appointments - Slot full: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotFull)

		case errors.Is(err, bookAppointment.ErrNoFutureSlot):
			h.logger.Warn("POST /appointments - No future slot: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgNoFutureSlot)

		case errors.Is(err, bookAppointment.ErrSlotBusy):
			h.logger.Warn("POST /appointments - Slot busy: slot_id=%d", req.SlotID)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, bookAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments - Failed to book: slot_id=%d, patient_id=%d, error=%v",
				req.SlotID, patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, slot_id=%d, position=%d",
		result.ID, result.SlotID, result.QueuePosition)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
