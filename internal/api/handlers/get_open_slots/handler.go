package get_open_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/agendahub/AH-BookingEngine/internal/api/handlers"
	"github.com/agendahub/AH-BookingEngine/internal/api/middleware"
	"github.com/agendahub/AH-BookingEngine/internal/domain"
	getOpenSlots "github.com/agendahub/AH-BookingEngine/internal/usecase/get_open_slots"
)

const (
	msgInvalidProfessionalID   = "некорректный ID специалиста"
	msgInvalidServiceID        = "некорректный ID услуги"
	msgInvalidDateRange        = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
	msgMissingUserID           = "отсутствует ID пользователя"
	msgServiceNotFound         = "услуга не найдена"
	msgProfessionalNotFound    = "специалист не найден"
	msgProfessionalNotEligible = "специалист не оказывает эту услугу"
)

type Handler struct {
	useCase GetOpenSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetOpenSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/services/{serviceId}/open-slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /open-slots - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /open-slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	// Получаем clientID из контекста (через middleware Auth)
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /open-slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Парсим период из query-параметров
	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /open-slots - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /open-slots - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), &getOpenSlots.Request{
		ClientID:       clientID,
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		From:           from,
		To:             to,
	})
	if err != nil {
		switch {
		case errors.Is(err, getOpenSlots.ErrServiceNotFound):
			h.logger.Warn("GET /open-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getOpenSlots.ErrProfessionalNotFound):
			h.logger.Warn("GET /open-slots - Professional not found: professional_id=%d", professionalID)
			handlers.RespondNotFound(w, msgProfessionalNotFound)

		case errors.Is(err, getOpenSlots.ErrProfessionalNotEligible):
			h.logger.Warn("GET /open-slots - Professional not eligible: professional_id=%d, service_id=%d",
				professionalID, serviceID)
			handlers.RespondBadRequest(w, msgProfessionalNotEligible)

		case errors.Is(err, getOpenSlots.ErrInvalidDateRange), errors.Is(err, getOpenSlots.ErrInvalidInput):
			h.logger.Warn("GET /open-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateRange)

		default:
			h.logger.Error("GET /open-slots - Failed to get open slots: professional_id=%d, service_id=%d, error=%v",
				professionalID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /open-slots - Open slots retrieved: professional_id=%d, service_id=%d, days=%d",
		professionalID, serviceID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
