package get_professional_bookings

import (
	"net/url"
	"strconv"
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/service/bookings/models"
)

// parseQuery собирает модель запроса сервиса из query-параметров.
// Поддерживаются фильтры: serviceId, clientId, startDate, endDate, status,
// includeInactive.
func parseQuery(query url.Values, userID, professionalID int64) (*models.GetProfessionalBookingsRequest, error) {
	req := &models.GetProfessionalBookingsRequest{
		UserID:         userID,
		ProfessionalID: professionalID,
	}

	if serviceIDStr := query.Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	if clientIDStr := query.Get("clientId"); clientIDStr != "" {
		clientID, err := strconv.ParseInt(clientIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ClientID = &clientID
	}

	if startDateStr := query.Get("startDate"); startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &startDate
	}

	if endDateStr := query.Get("endDate"); endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &endDate
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
