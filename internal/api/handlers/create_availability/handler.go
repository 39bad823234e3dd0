package create_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	createAvailability "github.com/m04kA/SMC-ClinicService/internal/usecase/create_availability"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidTime          = "некорректный формат времени, ожидается HH:MM или HH:MM:SS"
	msgUnauthorized         = "не удалось определить пользователя"
	msgDoctorNotFound       = "врач не найден"
	msgInvalidTimeRange     = "начало слота должно быть раньше конца"
	msgInvalidBookingWindow = "некорректное окно бронирования"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CreateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /availability - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(doctorID)
	if err != nil {
		h.logger.Warn("POST /availability - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAvailability.ErrDoctorNotFound):
			h.logger.Warn("POST /availability - Doctor not found: doctor_id=%d", doctorID)
			handlers.RespondNotFound(w, msgDoctorNotFound)

		case errors.Is(err, createAvailability.ErrInvalidTimeRange):
			h.logger.Warn("POST /availability - Invalid time range: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, createAvailability.ErrInvalidBookingWindow):
			h.logger.Warn("POST /availability - Invalid booking window: doctor_id=%d", doctorID)
			handlers.RespondBadRequest(w, msgInvalidBookingWindow)

		case errors.Is(err, createAvailability.ErrInvalidInput):
			h.logger.Warn("POST /availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /availability - Failed to create slots: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /availability - Created %d slot(s): doctor_id=%d", len(result.Slots), doctorID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
