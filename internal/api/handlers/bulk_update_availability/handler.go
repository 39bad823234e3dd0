package bulk_update_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ClinicService/internal/api/handlers"
	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	bulkUpdate "github.com/m04kA/SMC-ClinicService/internal/usecase/bulk_update_availability"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateOrTime  = "некорректный формат даты или времени"
	msgUnauthorized       = "не удалось определить пользователя"
	msgInvalidInput       = "некорректные данные запроса"
	msgSlotBusy           = "один из слотов занят другим запросом, попробуйте еще раз"
)

type Handler struct {
	useCase BulkUpdateUseCase
	logger  Logger
}

func NewHandler(useCase BulkUpdateUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/availability/bulk-update
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /availability/bulk-update - Missing user ID in context")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req BulkUpdateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /availability/bulk-update - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(doctorID)
	if err != nil {
		h.logger.Warn("PUT /availability/bulk-update - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bulkUpdate.ErrInvalidInput):
			h.logger.Warn("PUT /availability/bulk-update - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bulkUpdate.ErrSlotBusy):
			h.logger.Warn("PUT /availability/bulk-update - Slot busy: doctor_id=%d", doctorID)
			handlers.RespondConflict(w, msgSlotBusy)

		default:
			h.logger.Error("PUT /availability/bulk-update - Failed: doctor_id=%d, error=%v", doctorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /availability/bulk-update - Updated %d slot(s), skipped %d: doctor_id=%d",
		len(result.UpdatedSlotIDs), len(result.Skipped), doctorID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
