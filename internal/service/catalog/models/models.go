package models

import (
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
)

// Request модели

// UpsertServiceRequest запрос на создание/обновление политики услуги
type UpsertServiceRequest struct {
	ServiceID int64  `json:"serviceId"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`

	DurationMinutes             int  `json:"durationMinutes"`
	IntervalBetweenSlotsMinutes int  `json:"intervalBetweenSlotsMinutes"`
	SimultaneousBookingsPerSlot int  `json:"simultaneousBookingsPerSlot"`
	SimultaneousBookingsPerUser int  `json:"simultaneousBookingsPerUser"`
	Block24Hours                bool `json:"block24Hours"`

	ConfirmationType string `json:"confirmationType"` // "automatic" | "manual"
	AvailabilityType string `json:"availabilityType"` // "general" | "specific" | "inherited"

	BookingFee      *float64 `json:"bookingFee,omitempty"`
	ProfessionalIDs []int64  `json:"professionalIds"`
	IsActive        bool     `json:"isActive"`
}

// ToDomainService конвертирует запрос в domain модель
func (r *UpsertServiceRequest) ToDomainService() *domain.Service {
	return &domain.Service{
		ID:                          r.ServiceID,
		CompanyID:                   r.CompanyID,
		Name:                        r.Name,
		DurationMinutes:             r.DurationMinutes,
		IntervalBetweenSlotsMinutes: r.IntervalBetweenSlotsMinutes,
		SimultaneousBookingsPerSlot: r.SimultaneousBookingsPerSlot,
		SimultaneousBookingsPerUser: r.SimultaneousBookingsPerUser,
		Block24Hours:                r.Block24Hours,
		ConfirmationType:            domain.ConfirmationType(r.ConfirmationType),
		AvailabilityType:            domain.AvailabilityType(r.AvailabilityType),
		BookingFee:                  r.BookingFee,
		ProfessionalIDs:             r.ProfessionalIDs,
		IsActive:                    r.IsActive,
	}
}

// Response модели

// ServiceResponse ответ с политикой услуги
type ServiceResponse struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"companyId"`
	Name      string `json:"name"`

	DurationMinutes             int  `json:"durationMinutes"`
	IntervalBetweenSlotsMinutes int  `json:"intervalBetweenSlotsMinutes"`
	SimultaneousBookingsPerSlot int  `json:"simultaneousBookingsPerSlot"`
	SimultaneousBookingsPerUser int  `json:"simultaneousBookingsPerUser"`
	Block24Hours                bool `json:"block24Hours"`

	ConfirmationType string `json:"confirmationType"`
	AvailabilityType string `json:"availabilityType"`

	BookingFee      *float64 `json:"bookingFee,omitempty"`
	ProfessionalIDs []int64  `json:"professionalIds"`
	IsActive        bool     `json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком политик услуг компании
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// Методы конвертации

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}

	return &ServiceResponse{
		ID:                          s.ID,
		CompanyID:                   s.CompanyID,
		Name:                        s.Name,
		DurationMinutes:             s.DurationMinutes,
		IntervalBetweenSlotsMinutes: s.IntervalBetweenSlotsMinutes,
		SimultaneousBookingsPerSlot: s.SimultaneousBookingsPerSlot,
		SimultaneousBookingsPerUser: s.SimultaneousBookingsPerUser,
		Block24Hours:                s.Block24Hours,
		ConfirmationType:            string(s.ConfirmationType),
		AvailabilityType:            string(s.AvailabilityType),
		BookingFee:                  s.BookingFee,
		ProfessionalIDs:             s.ProfessionalIDs,
		IsActive:                    s.IsActive,
		CreatedAt:                   s.CreatedAt,
		UpdatedAt:                   s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список domain моделей в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services: make([]ServiceResponse, 0, len(services)),
	}

	for _, service := range services {
		if serviceResp := FromDomainService(service); serviceResp != nil {
			resp.Services = append(resp.Services, *serviceResp)
		}
	}

	return resp
}
