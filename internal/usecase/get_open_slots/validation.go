package get_open_slots

import (
	"fmt"
)

// maxRangeDays ограничивает период запроса, чтобы один запрос не
// разворачивал расписание на годы вперед
const maxRangeDays = 62

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}

	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidDateRange)
	}

	if req.To.Sub(req.From).Hours() > float64(maxRangeDays*24) {
		return fmt.Errorf("%w: period must not exceed %d days", ErrInvalidDateRange, maxRangeDays)
	}

	return nil
}
