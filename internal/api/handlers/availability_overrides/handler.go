package availability_overrides

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/agendahub/AH-BookingEngine/internal/api/handlers"
	"github.com/agendahub/AH-BookingEngine/internal/api/middleware"
	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability"
	"github.com/agendahub/AH-BookingEngine/internal/service/availability/models"
	"github.com/agendahub/AH-BookingEngine/pkg/ptr"
)

const (
	msgInvalidProfessionalID = "некорректный ID специалиста"
	msgInvalidOverrideID     = "некорректный ID переопределения"
	msgInvalidServiceID      = "некорректный ID услуги"
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidPeriod         = "некорректный период: необходимы from и to в формате YYYY-MM-DD"
	msgMissingUserID         = "отсутствует ID пользователя"
	msgCompanyNotFound       = "компания не найдена"
	msgProfessionalNotFound  = "специалист не найден"
	msgOverrideNotFound      = "переопределение не найдено"
	msgForbidden             = "доступ запрещен"
	msgInvalidRule           = "некорректное переопределение даты"
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

// Handle PUT /api/v1/professionals/{professionalId}/availability/overrides
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := h.parseProfessionalID(w, r, "PUT")
	if !ok {
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /professionals/{id}/availability/overrides - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /professionals/{id}/availability/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpsertOverride(r.Context(), req.ToServiceRequest(userID, professionalID))
	if err != nil {
		switch {
		case errors.Is(err, availability.ErrCompanyNotFound):
			h.logger.Warn("PUT /professionals/{id}/availability/overrides - Company not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, availability.ErrProfessionalNotFound):
			h.logger.Warn("PUT /professionals/{id}/availability/overrides - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, availability.ErrAccessDenied):
			h.logger.Warn("PUT /professionals/{id}/availability/overrides - Access denied: professional_id=%d, user_id=%d",
				professionalID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, availability.ErrInvalidRule), errors.Is(err, availability.ErrInvalidInput):
			h.logger.Warn("PUT /professionals/{id}/availability/overrides - Invalid override: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("PUT /professionals/{id}/availability/overrides - Failed to upsert override: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /professionals/{id}/availability/overrides - Override upserted: professional_id=%d, date=%s",
		professionalID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleList GET /api/v1/professionals/{professionalId}/availability/overrides?from=YYYY-MM-DD&to=YYYY-MM-DD&serviceId=N
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	professionalID, ok := h.parseProfessionalID(w, r, "GET")
	if !ok {
		return
	}

	query := r.URL.Query()

	from, errFrom := time.Parse(domain.DateFormat, query.Get("from"))
	to, errTo := time.Parse(domain.DateFormat, query.Get("to"))
	if errFrom != nil || errTo != nil || to.Before(from) {
		h.logger.Warn("GET /professionals/{id}/availability/overrides - Invalid period: from=%q, to=%q",
			query.Get("from"), query.Get("to"))
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	req := &models.GetOverridesRequest{
		ProfessionalID: professionalID,
		From:           from,
		To:             to,
	}

	if raw := query.Get("serviceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/availability/overrides - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = ptr.Ptr(id)
	}

	result, err := h.service.GetOverrides(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /professionals/{id}/availability/overrides - Failed to get overrides: professional_id=%d, error=%v",
			professionalID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /professionals/{id}/availability/overrides - Overrides fetched: professional_id=%d, count=%d",
		professionalID, len(result.Overrides))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDelete DELETE /api/v1/professionals/{professionalId}/availability/overrides/{overrideId}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.parseProfessionalID(w, r, "DELETE"); !ok {
		return
	}

	vars := mux.Vars(r)
	overrideID, err := strconv.ParseInt(vars["overrideId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /professionals/{id}/availability/overrides/{overrideId} - Invalid override ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOverrideID)
		return
	}

	if err := h.service.DeleteOverride(r.Context(), overrideID); err != nil {
		switch {
		case errors.Is(err, availability.ErrOverrideNotFound):
			h.logger.Warn("DELETE /professionals/{id}/availability/overrides/{overrideId} - Override not found: override_id=%d",
				overrideID)
			handlers.RespondNotFound(w, msgOverrideNotFound)

		default:
			h.logger.Error("DELETE /professionals/{id}/availability/overrides/{overrideId} - Failed to delete override: override_id=%d, error=%v",
				overrideID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /professionals/{id}/availability/overrides/{overrideId} - Override deleted: override_id=%d", overrideID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseProfessionalID(w http.ResponseWriter, r *http.Request, method string) (int64, bool) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("%s /professionals/{id}/availability/overrides - Invalid professional ID: %v", method, err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return 0, false
	}
	return professionalID, true
}
