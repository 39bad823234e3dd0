package live_update_slot

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	liveUpdate "github.com/m04kA/SMC-ClinicService/internal/usecase/live_update_slot"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// LiveUpdateRequest HTTP request model
// Отсутствующие поля не меняются
type LiveUpdateRequest struct {
	StartTime          *string `json:"startTime,omitempty"` // "HH:MM" или "HH:MM:SS"
	EndTime            *string `json:"endTime,omitempty"`
	MaxPatients        *int    `json:"maxPatients,omitempty"`
	BookingWindowStart *string `json:"bookingWindowStart,omitempty"` // RFC3339
	BookingWindowEnd   *string `json:"bookingWindowEnd,omitempty"`
	IsFutureAvailable  *bool   `json:"isFutureAvailable,omitempty"`
}

// LiveUpdateResponse HTTP response model
type LiveUpdateResponse struct {
	ID                 int64  `json:"id"`
	DoctorID           int64  `json:"doctorId"`
	Date               string `json:"date"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	MaxPatients        int    `json:"maxPatients"`
	BookingWindowStart string `json:"bookingWindowStart"`
	BookingWindowEnd   string `json:"bookingWindowEnd"`
	IsFutureAvailable  bool   `json:"isFutureAvailable"`
	UpdatedAt          string `json:"updatedAt"`

	RedistributedAppointmentIDs []int64 `json:"redistributedAppointmentIds,omitempty"`
	RemovedAppointmentIDs       []int64 `json:"removedAppointmentIds,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *LiveUpdateRequest) ToUseCaseRequest(slotID, doctorID int64) (*liveUpdate.Request, error) {
	req := &liveUpdate.Request{
		SlotID:            slotID,
		DoctorID:          doctorID,
		MaxPatients:       r.MaxPatients,
		IsFutureAvailable: r.IsFutureAvailable,
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		req.StartTime = &startTime
	}
	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}
	if r.BookingWindowStart != nil {
		bookingStart, err := time.Parse(time.RFC3339, *r.BookingWindowStart)
		if err != nil {
			return nil, err
		}
		req.BookingWindowStart = &bookingStart
	}
	if r.BookingWindowEnd != nil {
		bookingEnd, err := time.Parse(time.RFC3339, *r.BookingWindowEnd)
		if err != nil {
			return nil, err
		}
		req.BookingWindowEnd = &bookingEnd
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *liveUpdate.Response) *LiveUpdateResponse {
	return &LiveUpdateResponse{
		ID:                 resp.ID,
		DoctorID:           resp.DoctorID,
		Date:               resp.Date.Format(domain.DateFormat),
		StartTime:          resp.StartTime.String(),
		EndTime:            resp.EndTime.String(),
		MaxPatients:        resp.MaxPatients,
		BookingWindowStart: resp.BookingWindowStart.Format(time.RFC3339),
		BookingWindowEnd:   resp.BookingWindowEnd.Format(time.RFC3339),
		IsFutureAvailable:  resp.IsFutureAvailable,
		UpdatedAt:          resp.UpdatedAt.Format(time.RFC3339),

		RedistributedAppointmentIDs: resp.RedistributedAppointmentIDs,
		RemovedAppointmentIDs:       resp.RemovedAppointmentIDs,
	}
}
