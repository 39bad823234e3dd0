package bulk_update_availability

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	bulkUpdate "github.com/m04kA/SMC-ClinicService/internal/usecase/bulk_update_availability"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// BulkUpdateRequest HTTP request model
// Слоты адресуются либо датами (dates), либо расписанием (dayOfWeek + repeatWeeks)
type BulkUpdateRequest struct {
	Dates       []string `json:"dates,omitempty"` // "YYYY-MM-DD"
	DayOfWeek   string   `json:"dayOfWeek,omitempty"`
	RepeatWeeks int      `json:"repeatWeeks,omitempty"`

	StartTime string `json:"startTime"` // Ключ слота
	EndTime   string `json:"endTime"`

	BookingStartTime  *string `json:"bookingStartTime,omitempty"`
	BookingEndTime    *string `json:"bookingEndTime,omitempty"`
	MaxPatients       *int    `json:"maxPatients,omitempty"`
	IsFutureAvailable *bool   `json:"isFutureAvailable,omitempty"`
}

// SkippedDateResponse пропущенная дата с причиной
type SkippedDateResponse struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// BulkUpdateResponse HTTP response model
type BulkUpdateResponse struct {
	UpdatedSlotIDs []int64               `json:"updatedSlotIds"`
	Skipped        []SkippedDateResponse `json:"skipped,omitempty"`

	RedistributedAppointmentIDs []int64 `json:"redistributedAppointmentIds,omitempty"`
	RemovedAppointmentIDs       []int64 `json:"removedAppointmentIds,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BulkUpdateRequest) ToUseCaseRequest(doctorID int64) (*bulkUpdate.Request, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	req := &bulkUpdate.Request{
		DoctorID:          doctorID,
		DayOfWeek:         r.DayOfWeek,
		RepeatWeeks:       r.RepeatWeeks,
		StartTime:         startTime,
		EndTime:           endTime,
		MaxPatients:       r.MaxPatients,
		IsFutureAvailable: r.IsFutureAvailable,
	}

	for _, raw := range r.Dates {
		date, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			return nil, err
		}
		req.Dates = append(req.Dates, date)
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
func FromUseCaseResponse(resp *bulkUpdate.Response) *BulkUpdateResponse {
	result := &BulkUpdateResponse{
		UpdatedSlotIDs:              resp.UpdatedSlotIDs,
		RedistributedAppointmentIDs: resp.RedistributedAppointmentIDs,
		RemovedAppointmentIDs:       resp.RemovedAppointmentIDs,
	}

	for _, skipped := range resp.Skipped {
		result.Skipped = append(result.Skipped, SkippedDateResponse{
			Date:   skipped.Date.Format(domain.DateFormat),
			Reason: string(skipped.Reason),
		})
	}

	return result
}
