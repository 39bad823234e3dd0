package create_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	createAvailability "github.com/m04kA/SMC-ClinicService/internal/usecase/create_availability"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// CreateAvailabilityRequest HTTP request model
type CreateAvailabilityRequest struct {
	DayOfWeek   string `json:"dayOfWeek"` // "Monday" ... "Sunday"
	RepeatWeeks int    `json:"repeatWeeks,omitempty"`
	StartTime   string `json:"startTime"` // "HH:MM" или "HH:MM:SS"
	EndTime     string `json:"endTime"`

	BookingStartTime *string `json:"bookingStartTime,omitempty"`
	BookingEndTime   *string `json:"bookingEndTime,omitempty"`

	MaxPatients       *int  `json:"maxPatients,omitempty"`
	IsFutureAvailable *bool `json:"isFutureAvailable,omitempty"`
}

// SlotResponse созданный слот
type SlotResponse struct {
	ID                 int64  `json:"id"`
	DoctorID           int64  `json:"doctorId"`
	Date               string `json:"date"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	MaxPatients        int    `json:"maxPatients"`
	BookingWindowStart string `json:"bookingWindowStart"`
	BookingWindowEnd   string `json:"bookingWindowEnd"`
	IsFutureAvailable  bool   `json:"isFutureAvailable"`
	CreatedAt          string `json:"createdAt"`
	UpdatedAt          string `json:"updatedAt"`
}

// CreateAvailabilityResponse HTTP response model
type CreateAvailabilityResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAvailabilityRequest) ToUseCaseRequest(doctorID int64) (*createAvailability.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	req := &createAvailability.Request{
		DoctorID:          doctorID,
		DayOfWeek:         r.DayOfWeek,
		RepeatWeeks:       r.RepeatWeeks,
		StartTime:         startTime,
		EndTime:           endTime,
		MaxPatients:       r.MaxPatients,
		IsFutureAvailable: r.IsFutureAvailable,
	}

	if r.BookingStartTime != nil {
		bookingStart, err := types.NewTimeStringFromString(*r.BookingStartTime)
		if err != nil {
			return nil, err
		}
		req.BookingStartTime = &bookingStart
	}
	if r.BookingEndTime != nil {
		bookingEnd, err := types.NewTimeStringFromString(*r.BookingEndTime)
		if err != nil {
			return nil, err
		}
		req.BookingEndTime = &bookingEnd
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createAvailability.Response) *CreateAvailabilityResponse {
	result := &CreateAvailabilityResponse{
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			ID:                 s.ID,
			DoctorID:           s.DoctorID,
			Date:               s.Date.Format(domain.DateFormat),
			StartTime:          s.StartTime.String(),
			EndTime:            s.EndTime.String(),
			MaxPatients:        s.MaxPatients,
			BookingWindowStart: s.BookingWindowStart.Format(time.RFC3339),
			BookingWindowEnd:   s.BookingWindowEnd.Format(time.RFC3339),
			IsFutureAvailable:  s.IsFutureAvailable,
			CreatedAt:          s.CreatedAt.Format(time.RFC3339),
			UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
		})
	}

	return result
}
