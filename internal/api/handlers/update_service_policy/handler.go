package update_service_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agendahub/AH-BookingEngine/internal/api/handlers"
	"github.com/agendahub/AH-BookingEngine/internal/service/catalog"
)

const (
	msgInvalidCompanyID     = "некорректный ID компании"
	msgInvalidServiceID     = "некорректный ID услуги"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgCompanyNotFound      = "компания не найдена"
	msgProfessionalNotFound = "специалист не принадлежит компании"
	msgInvalidPolicy        = "некорректная политика услуги"
)

type Handler struct {
	service CatalogService
	logger  Logger
}

func NewHandler(service CatalogService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/companies/{companyId}/services/{serviceId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyID, err := strconv.ParseInt(vars["companyId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /companies/{id}/services/{serviceId} - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /companies/{id}/services/{serviceId} - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var req UpdateServicePolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /companies/{id}/services/{serviceId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Upsert(r.Context(), req.ToServiceRequest(companyID, serviceID))
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrCompanyNotFound):
			h.logger.Warn("PUT /companies/{id}/services/{serviceId} - Company not found: company_id=%d", companyID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, catalog.ErrProfessionalNotFound):
			h.logger.Warn("PUT /companies/{id}/services/{serviceId} - Professional not in company: company_id=%d, service_id=%d",
				companyID, serviceID)
			handlers.RespondBadRequest(w, msgProfessionalNotFound)

		case errors.Is(err, catalog.ErrInvalidInput):
			h.logger.Warn("PUT /companies/{id}/services/{serviceId} - Invalid policy: company_id=%d, service_id=%d, error=%v",
				companyID, serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidPolicy)

		default:
			h.logger.Error("PUT /companies/{id}/services/{serviceId} - Failed to upsert policy: company_id=%d, service_id=%d, error=%v",
				companyID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /companies/{id}/services/{serviceId} - Policy upserted: company_id=%d, service_id=%d",
		companyID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
