package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendahub/AH-BookingEngine/internal/api/handlers"
	"github.com/agendahub/AH-BookingEngine/internal/api/middleware"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
)

const (
	msgInvalidCompanyID      = "некорректный ID компании"
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgCompanyNotFound       = "компания не найдена"
	msgProfessionalNotFound  = "специалист не найден"
	msgForbidden             = "доступ запрещен"
	msgInvalidRule           = "некорректное правило доступности"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/companies/{companyId}/availability
// Handle PUT /api/v1/companies/{companyId}/professionals/{professionalId}/availability?serviceId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT availability - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	// Уровень специалиста опционален: без него правила пишутся на компанию
	var professionalID *int64
	if raw, ok := vars["professionalId"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("PUT availability - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		professionalID = ptr.Ptr(id)
	}

	// Уровень услуги задается query-параметром и требует уровня специалиста
	var serviceID *int64
	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("PUT availability - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = ptr.Ptr(id)
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT availability - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceRuleSet(r.Context(), req.ToServiceRequest(userID, companyID, professionalID, serviceID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrCompanyNotFound):
			h.logger.Warn("PUT availability - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, availability.ErrProfessionalNotFound):
			h.logger.Warn("PUT availability - Professional not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT availability - Access denied: company_id=%d, user_id=%d", companyID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidRule), errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT availability - Invalid rule: company_id=%d, error=%v", companyID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("PUT availability - Failed to replace rule set: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT availability - Rule set replaced: company_id=%d, user_id=%d", companyID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
