package get_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendahub/AH-BookingEngine/internal/api/handlers"
	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
)

const (
	msgInvalidCompanyID      = "некорректный ID компании"
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgRuleSetNotFound       = "расписание не найдено"
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

// Handle GET /api/v1/companies/{companyId}/availability
// Handle GET /api/v1/companies/{companyId}/professionals/{professionalId}/availability?serviceId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET availability - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	scope := domain.RuleScope{CompanyID: companyID}

	if raw, ok := vars["professionalId"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET availability - Invalid professional ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProfessionalID)
			return
		}
		scope.ProfessionalID = ptr.Ptr(id)
	}

	if raw := r.URL.Query().Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET availability - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		scope.ServiceID = ptr.Ptr(id)
	}

	result, err := h.service.GetRuleSet(r.Context(), scope)
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrRuleSetNotFound):
			h.logger.Warn("GET availability - Rule set not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgRuleSetNotFound)

		default:
			h.logger.Error("GET availability - Failed to get rule set: company_id=%d, error=%v", companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET availability - Rule set fetched: company_id=%d", companyID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
