package update_service_policy

import (
	"github.com/agendahub/AH-BookingEngine/internal/service/catalog/models"
)

// UpdateServicePolicyRequest тело запроса на запись политики услуги.
// Идентификаторы компании и услуги берутся из пути.
type UpdateServicePolicyRequest struct {
	Name string `json:"name"`

	DurationMinutes             int  `json:"durationMinutes"`
	IntervalBetweenSlotsMinutes int  `json:"intervalBetweenSlotsMinutes"`
	SimultaneousBookingsPerSlot int  `json:"simultaneousBookingsPerSlot"`
	SimultaneousBookingsPerUser int  `json:"simultaneousBookingsPerUser"`
	Block24Hours                bool `json:"block24Hours"`

	ConfirmationType string `json:"confirmationType"` // "automatic" | "manual"
	AvailabilityType string `json:"availabilityType"` // "general" | "specific" | "inherited"

	BookingFee      *float64 `json:"bookingFee,omitempty"`
	ProfessionalIDs []int64  `json:"professionalIds"`
	IsActive        bool     `json:"isActive"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса
func (r *UpdateServicePolicyRequest) ToServiceRequest(companyID, serviceID int64) *models.UpsertServiceRequest {
	return &models.UpsertServiceRequest{
		ServiceID:                   serviceID,
		CompanyID:                   companyID,
		Name:                        r.Name,
		DurationMinutes:             r.DurationMinutes,
		IntervalBetweenSlotsMinutes: r.IntervalBetweenSlotsMinutes,
		SimultaneousBookingsPerSlot: r.SimultaneousBookingsPerSlot,
		SimultaneousBookingsPerUser: r.SimultaneousBookingsPerUser,
		Block24Hours:                r.Block24Hours,
		ConfirmationType:            r.ConfirmationType,
		AvailabilityType:            r.AvailabilityType,
		BookingFee:                  r.BookingFee,
		ProfessionalIDs:             r.ProfessionalIDs,
		IsActive:                    r.IsActive,
	}
}
