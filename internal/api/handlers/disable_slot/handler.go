package disable_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

const (
	msgInvalidSlotID = "некорректный ID слота"
	msgUnauthorized  = "не удалось определить пользователя"
	msgSlotNotFound  = "слот не найден"
	msgAccessDenied  = "слот принадлежит другому врачу"
	msgSlotBlocked   = "в слоте есть запись меньше чем за два часа до начала"
	msgSlotBusy      = "слот занят другим запросом, попробуйте еще раз"
)

type Handler struct {
	useCase DisableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase DisableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/availability/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /availability - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("DELETE /availability - Invalid slot ID: %s", mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.useCase.ExecuteSingle(r.Context(), &disableSlots.SingleRequest{
		SlotID:   slotID,
		DoctorID: doctorID,
	})
	if err != nil {
		switch {
		case errors.Is(err, disableSlots.ErrSlotNotFound):
			h.logger.Warn("DELETE /availability - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, disableSlots.ErrForbidden):
			h.logger.Warn("DELETE /availability - Access denied: slot_id=%d, user_id=%d", slotID, doctorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, disableSlots.ErrSlotBlocked):
			h.logger.Warn("DELETE /availability - Slot blocked: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotBlocked)

		case errors.Is(err, disableSlots.ErrSlotBusy):
			h.logger.Warn("DELETE /availability - Slot busy: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("DELETE /availability - Failed: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability - Disabled: slot_id=%d, cancelled=%d",
		slotID, len(result.CancelledAppointmentIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
