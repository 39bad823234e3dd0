package disable_all_slots

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
	msgInvalidDoctorID = "некорректный ID врача"
	msgUnauthorized    = "не удалось определить пользователя"
	msgAccessDenied    = "управление чужими слотами запрещено"
	msgSlotBusy        = "один из слотов занят другим запросом, попробуйте еще раз"
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

// Handle DELETE /api/v1/availability/all/{doctorId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /availability/all - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("DELETE /availability/all - Invalid doctor ID: %s", mux.Vars(r)["doctorId"])
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Врач отключает только свое расписание
	if doctorID != userID {
		h.logger.Warn("DELETE /availability/all - Access denied: doctor_id=%d, user_id=%d", doctorID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	result, err := h.useCase.ExecuteAll(r.Context(), &disableSlots.AllRequest{DoctorID: doctorID})
	if err != nil {
		switch {
		case errors.Is(err, disableSlots.ErrSlotBusy):
			h.logger.Warn("DELETE /availability/all - Slot busy: doctor_id=%d", doctorID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("DELETE /availability/all - Failed: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability/all - Disabled %d slot(s), blocked %d: doctor_id=%d",
		len(result.DisabledSlotIDs), len(result.BlockedSlotIDs), doctorID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
