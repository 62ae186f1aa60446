package update_availability

import (
	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
)

// UpdateAvailabilityRequest тело запроса на замену недельного расписания.
// Область (компания, специалист, услуга) берется из пути и query, не из тела.
type UpdateAvailabilityRequest struct {
	Days map[int]models.DayAvailabilityRequest `json:"days"`
}

// ToServiceRequest конвертирует HTTP запрос в запрос сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(userID, companyID int64, professionalID, serviceID *int64) *models.ReplaceRuleSetRequest {
	return &models.ReplaceRuleSetRequest{
		UserID:         userID,
		CompanyID:      companyID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		Days:           r.Days,
	}
}
