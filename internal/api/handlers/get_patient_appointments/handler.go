package get_patient_appointments

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
	msgInvalidPatientID = "некорректный ID пациента"
	msgUnauthorized     = "не удалось определить пользователя"
	msgAccessDenied     = "доступ к чужим записям запрещен"
	msgPatientNotFound  = "пациент не найден"
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

// Handle GET /api/v1/appointments/patient/{patientId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /appointments/patient - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	patientID, err := strconv.ParseInt(mux.Vars(r)["patientId"], 10, 64)
	if err != nil || patientID <= 0 {
		h.logger.Warn("GET /appointments/patient - Invalid patient ID: %s", mux.Vars(r)["patientId"])
		handlers.RespondBadRequest(w, msgInvalidPatientID)
		return
	}

	// Пациент видит только свои записи
	if patientID != userID {
		h.logger.Warn("GET /appointments/patient - Access denied: patient_id=%d, user_id=%d", patientID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	result, err := h.service.GetByPatient(r.Context(), patientID)
	if err != nil {
		switch {
		case errors.Is(err, appointmentsService.ErrPatientNotFound):
			h.logger.Warn("GET /appointments/patient - Patient not found: patient_id=%d", patientID)
			handlers.RespondNotFound(w, msgPatientNotFound)

		default:
			h.logger.Error("GET /appointments/patient - Failed to fetch: patient_id=%d, error=%v", patientID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/patient - Fetched %d appointment(s): patient_id=%d",
		len(result.Appointments), patientID)
	handlers.RespondJSON(w, http.StatusOK, FromServiceResponse(result))
}
