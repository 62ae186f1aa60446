package get_open_slots

import (
	"github.com/agendahub/AH-BookingEngine/internal/domain"
	getOpenSlots "github.com/agendahub/AH-BookingEngine/internal/usecase/get_open_slots"
)

// SlotResponse HTTP модель открытого слота
type SlotResponse struct {
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// DaySlotsResponse HTTP модель слотов одного дня
type DaySlotsResponse struct {
	Date  string         `json:"date"`
	Slots []SlotResponse `json:"slots"`
}

// OpenSlotsResponse HTTP модель ответа
type OpenSlotsResponse struct {
	ProfessionalID int64              `json:"professionalId"`
	ServiceID      int64              `json:"serviceId"`
	Days           []DaySlotsResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getOpenSlots.Response) *OpenSlotsResponse {
	days := make([]DaySlotsResponse, len(resp.Days))

	for i, day := range resp.Days {
		slots := make([]SlotResponse, len(day.Slots))
		for j, slot := range day.Slots {
			slots[j] = SlotResponse{
				StartTime:       slot.StartTime.String(),
				EndTime:         slot.EndTime.String(),
				DurationMinutes: slot.DurationMinutes,
				AvailableSpots:  slot.AvailableSpots,
				TotalSpots:      slot.TotalSpots,
			}
		}

		days[i] = DaySlotsResponse{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		}
	}

	return &OpenSlotsResponse{
		ProfessionalID: resp.ProfessionalID,
		ServiceID:      resp.ServiceID,
		Days:           days,
	}
}
