package live_update_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	liveUpdate "github.com/m04kA/SMC-ClinicService/internal/usecase/live_update_slot"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotID      = "некорректный ID слота"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgUnauthorized       = "не удалось определить пользователя"
	msgSlotNotFound       = "слот не найден"
	msgAccessDenied       = "слот принадлежит другому врачу"
	msgSlotDisabled       = "слот отключен"
	msgInvalidTimeRange   = "некорректные границы слота или окна бронирования"
	msgTooCloseToStart    = "до начала слота меньше 30 минут, сужающие изменения запрещены"
	msgSlotBusy           = "слот занят другим запросом, попробуйте еще раз"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase LiveUpdateUseCase
	logger  Logger
}

func NewHandler(useCase LiveUpdateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/availability/{slotId}/live-update
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /availability/live-update - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		h.logger.Warn("PATCH /availability/live-update - Invalid slot ID: %s", mux.Vars(r)["slotId"])
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req LiveUpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /availability/live-update - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(slotID, doctorID)
	if err != nil {
		h.logger.Warn("PATCH /availability/live-update - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, liveUpdate.ErrSlotNotFound):
			h.logger.Warn("PATCH /availability/live-update - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, liveUpdate.ErrForbidden):
			h.logger.Warn("PATCH /availability/live-update - Access denied: slot_id=%d, user_id=%d", slotID, doctorID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, liveUpdate.ErrSlotDisabled):
			h.logger.Warn("PATCH /availability/live-update - Slot disabled: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotDisabled)

		case errors.Is(err, liveUpdate.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /availability/live-update - Invalid time range: slot_id=%d, error=%v", slotID, err)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidTimeRange)

		case errors.Is(err, liveUpdate.ErrTooCloseToStart):
			h.logger.Warn("PATCH /availability/live-update - Too close to start: slot_id=%d", slotID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgTooCloseToStart)

		case errors.Is(err, liveUpdate.ErrSlotBusy):
			h.logger.Warn("PATCH /availability/live-update - Slot busy: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgSlotBusy)

		case errors.Is(err, liveUpdate.ErrInvalidInput):
			h.logger.Warn("PATCH /availability/live-update - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /availability/live-update - Failed: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /availability/live-update - Updated: slot_id=%d, redistributed=%d, removed=%d",
		slotID, len(result.RedistributedAppointmentIDs), len(result.RemovedAppointmentIDs))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
