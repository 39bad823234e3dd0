package get_doctor_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	appointmentsService "github.com/m04kA/SMC-ClinicService/internal/service/appointments"
)

const (
	msgInvalidDoctorID = "некорректный ID врача"
	msgUnauthorized    = "не удалось определить пользователя"
	msgAccessDenied    = "доступ к чужому расписанию запрещен"
	msgDoctorNotFound  = "врач не найден"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/doctor/{doctorId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/doctor - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	doctorID, err := strconv.ParseInt(mux.Vars(r)["doctorId"], 10, 64)
	if err != nil || doctorID <= 0 {
		h.logger.Warn("GET /appointments/doctor - Invalid doctor ID: %s", mux.Vars(r)["doctorId"])
		handlers.RespondBadRequest(w, msgInvalidDoctorID)
		return
	}

	// Врач видит только свое расписание
	if doctorID != userID {
		h.logger.Warn("GET /appointments/doctor - Access denied: doctor_id=%d, user_id=%d", doctorID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	result, err := h.service.GetByDoctor(r.Context(), doctorID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrDoctorNotFound):
			h.logger.Warn("GET /appointments/doctor - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		default:
			h.logger.Error("GET /appointments/doctor - Failed to fetch: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/doctor - Fetched %d slot(s): doctor_id=%d", len(result.Slots), doctorID)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
