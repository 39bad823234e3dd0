package disable_slots_by_date

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	disableSlots "github.com/m04kA/SMC-ClinicService/internal/usecase/disable_slots"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
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

// Handle DELETE /api/v1/availability/doctor/{doctorId}/date/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /availability/doctor/date - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	vars := mux.Vars(r)

	doctorID, err := strconv.ParseInt(vars["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("DELETE /availability/doctor/date - Invalid doctor ID: %s", vars["doctorId"])
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Врач управляет только своими слотами
	if doctorID != userID {
		h.logger.Warn("DELETE /availability/doctor/date - Access denied: doctor_id=%d, user_id=%d", doctorID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /availability/doctor/date - Invalid date: %s", vars["date"])
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.ExecuteByDate(r.Context(), &disableSlots.ByDateRequest{
		DoctorID: doctorID,
		Date:     date,
	})
	if err != nil {
		switch {
		case errors.Is(err, disableSlots.ErrSlotBusy):
			h.logger.Warn("DELETE /availability/doctor/date - Slot busy: doctor_id=%d", doctorID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("DELETE /availability/doctor/date - Failed: doctor_id=%d, date=%s, error=%v",
				doctorID, vars["date"], err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /availability/doctor/date - Disabled %d slot(s), blocked %d: doctor_id=%d, date=%s",
		len(result.DisabledSlotIDs), len(result.BlockedSlotIDs), doctorID, vars["date"])
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
