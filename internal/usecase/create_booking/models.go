package create_booking

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID       int64            // ID клиента
	ProfessionalID int64            // ID специалиста
	ServiceID      int64            // ID услуги
	Date           time.Time        // Дата бронирования (без времени)
	StartTime      types.TimeString // Время начала слота (например, "10:00")
	Notes          *string          // Заметки клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64            `json:"id"`
	CompanyID       int64            `json:"companyId"`
	ProfessionalID  int64            `json:"professionalId"`
	ServiceID       int64            `json:"serviceId"`
	ClientID        int64            `json:"clientId"`
	BookingDate     time.Time        `json:"bookingDate"`
	StartTime       types.TimeString `json:"startTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`

	// Денормализованные данные услуги
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
