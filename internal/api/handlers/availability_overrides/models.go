package availability_overrides

import (
	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
)

// UpsertOverrideRequest тело запроса на создание/замену переопределения даты.
// Специалист берется из пути, пользователь - из контекста авторизации.
type UpsertOverrideRequest struct {
	CompanyID   int64                          `json:"companyId"`
	ServiceID   *int64                         `json:"serviceId,omitempty"`
	Date        string                         `json:"date"` // "2026-03-15"
	Blocked     bool                           `json:"blocked"`
	Replacement *models.DayAvailabilityRequest `json:"replacement,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса
func (r *UpsertOverrideRequest) ToServiceRequest(userID, professionalID int64) *models.UpsertOverrideRequest {
	return &models.UpsertOverrideRequest{
		UserID:         userID,
		CompanyID:      r.CompanyID,
		ProfessionalID: professionalID,
		ServiceID:      r.ServiceID,
		Date:           r.Date,
		Blocked:        r.Blocked,
		Replacement:    r.Replacement,
	}
}
