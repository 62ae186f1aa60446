package models

import (
	"errors"
	"time"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при дне недели вне диапазона 0-6
	ErrInvalidWeekday = errors.New("weekday must be between 0 (sunday) and 6 (saturday)")

	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("time must be in HH:MM format")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")
)

// Request модели

// DayAvailabilityRequest рабочий день в запросе на запись правил
type DayAvailabilityRequest struct {
	Active     bool    `json:"active"`
	StartTime  string  `json:"startTime"`            // "09:00"
	EndTime    string  `json:"endTime"`              // "18:00"
	BreakStart *string `json:"breakStart,omitempty"` // "12:00"
	BreakEnd   *string `json:"breakEnd,omitempty"`   // "13:00"
}

// ReplaceRuleSetRequest запрос на полную замену набора правил области
// Ключи Days - дни недели 0 (воскресенье) .. 6 (суббота)
type ReplaceRuleSetRequest struct {
	UserID         int64                          `json:"userId"`
	CompanyID      int64                          `json:"companyId"`
	ProfessionalID *int64                         `json:"professionalId,omitempty"`
	ServiceID      *int64                         `json:"serviceId,omitempty"`
	Days           map[int]DayAvailabilityRequest `json:"days"`
}

// ToDomainRuleSet конвертирует запрос в domain модель
func (r *ReplaceRuleSetRequest) ToDomainRuleSet() (*domain.AvailabilityRuleSet, error) {
	days := make(map[time.Weekday]domain.DayAvailability, len(r.Days))

	for weekday, day := range r.Days {
		if weekday < 0 || weekday > 6 {
			return nil, ErrInvalidWeekday
		}

		domainDay, err := toDomainDay(day)
		if err != nil {
			return nil, err
		}

		days[time.Weekday(weekday)] = domainDay
	}

	return &domain.AvailabilityRuleSet{
		Scope: domain.RuleScope{
			CompanyID:      r.CompanyID,
			ProfessionalID: r.ProfessionalID,
			ServiceID:      r.ServiceID,
		},
		Days: days,
	}, nil
}

// UpsertOverrideRequest запрос на создание/замену переопределения даты
type UpsertOverrideRequest struct {
	UserID         int64                   `json:"userId"`
	CompanyID      int64                   `json:"companyId"`
	ProfessionalID int64                   `json:"professionalId"`
	ServiceID      *int64                  `json:"serviceId,omitempty"`
	Date           string                  `json:"date"` // "2026-03-15"
	Blocked        bool                    `json:"blocked"`
	Replacement    *DayAvailabilityRequest `json:"replacement,omitempty"`
}

// ToDomainOverride конвертирует запрос в domain модель
func (r *UpsertOverrideRequest) ToDomainOverride() (*domain.AvailabilityOverride, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	override := &domain.AvailabilityOverride{
		CompanyID:      r.CompanyID,
		ProfessionalID: r.ProfessionalID,
		ServiceID:      r.ServiceID,
		Date:           date,
		Blocked:        r.Blocked,
	}

	if r.Replacement != nil {
		day, err := toDomainDay(*r.Replacement)
		if err != nil {
			return nil, err
		}
		override.Replacement = &day
	}

	return override, nil
}

// GetOverridesRequest запрос на чтение переопределений за период
type GetOverridesRequest struct {
	ProfessionalID int64
	ServiceID      *int64
	From           time.Time
	To             time.Time
}

// Response модели

// DayAvailabilityResponse рабочий день в ответе
type DayAvailabilityResponse struct {
	Active     bool    `json:"active"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	BreakStart *string `json:"breakStart,omitempty"`
	BreakEnd   *string `json:"breakEnd,omitempty"`
}

// RuleSetResponse ответ с набором правил области
type RuleSetResponse struct {
	CompanyID      int64                           `json:"companyId"`
	ProfessionalID *int64                          `json:"professionalId,omitempty"`
	ServiceID      *int64                          `json:"serviceId,omitempty"`
	Days           map[int]DayAvailabilityResponse `json:"days"`
}

// OverrideResponse ответ с переопределением даты
type OverrideResponse struct {
	ID             int64                    `json:"id"`
	CompanyID      int64                    `json:"companyId"`
	ProfessionalID int64                    `json:"professionalId"`
	ServiceID      *int64                   `json:"serviceId,omitempty"`
	Date           string                   `json:"date"`
	Blocked        bool                     `json:"blocked"`
	Replacement    *DayAvailabilityResponse `json:"replacement,omitempty"`
	CreatedAt      time.Time                `json:"createdAt"`
	UpdatedAt      time.Time                `json:"updatedAt"`
}

// OverrideListResponse ответ со списком переопределений
type OverrideListResponse struct {
	Overrides []OverrideResponse `json:"overrides"`
}

// Методы конвертации

// FromDomainRuleSet конвертирует domain модель в DTO
func FromDomainRuleSet(rs *domain.AvailabilityRuleSet) *RuleSetResponse {
	if rs == nil {
		return nil
	}

	resp := &RuleSetResponse{
		CompanyID:      rs.Scope.CompanyID,
		ProfessionalID: rs.Scope.ProfessionalID,
		ServiceID:      rs.Scope.ServiceID,
		Days:           make(map[int]DayAvailabilityResponse, len(rs.Days)),
	}

	for weekday, day := range rs.Days {
		resp.Days[int(weekday)] = fromDomainDay(day)
	}

	return resp
}

// FromDomainOverride конвертирует domain модель в DTO
func FromDomainOverride(o *domain.AvailabilityOverride) *OverrideResponse {
	if o == nil {
		return nil
	}

	resp := &OverrideResponse{
		ID:             o.ID,
		CompanyID:      o.CompanyID,
		ProfessionalID: o.ProfessionalID,
		ServiceID:      o.ServiceID,
		Date:           o.Date.Format(domain.DateFormat),
		Blocked:        o.Blocked,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}

	if o.Replacement != nil {
		day := fromDomainDay(*o.Replacement)
		resp.Replacement = &day
	}

	return resp
}

// FromDomainOverrideList конвертирует список domain моделей в DTO
func FromDomainOverrideList(overrides []*domain.AvailabilityOverride) *OverrideListResponse {
	resp := &OverrideListResponse{
		Overrides: make([]OverrideResponse, 0, len(overrides)),
	}

	for _, override := range overrides {
		if overrideResp := FromDomainOverride(override); overrideResp != nil {
			resp.Overrides = append(resp.Overrides, *overrideResp)
		}
	}

	return resp
}

func toDomainDay(day DayAvailabilityRequest) (domain.DayAvailability, error) {
	result := domain.DayAvailability{Active: day.Active}

	if !day.Active {
		return result, nil
	}

	start, err := types.NewTimeStringFromString(day.StartTime)
	if err != nil {
		return result, ErrInvalidTime
	}
	end, err := types.NewTimeStringFromString(day.EndTime)
	if err != nil {
		return result, ErrInvalidTime
	}
	result.StartTime = start
	result.EndTime = end

	if day.BreakStart != nil {
		breakStart, err := types.NewTimeStringFromString(*day.BreakStart)
		if err != nil {
			return result, ErrInvalidTime
		}
		result.BreakStart = &breakStart
	}
	if day.BreakEnd != nil {
		breakEnd, err := types.NewTimeStringFromString(*day.BreakEnd)
		if err != nil {
			return result, ErrInvalidTime
		}
		result.BreakEnd = &breakEnd
	}

	return result, nil
}

func fromDomainDay(day domain.DayAvailability) DayAvailabilityResponse {
	resp := DayAvailabilityResponse{
		Active:    day.Active,
		StartTime: day.StartTime.String(),
		EndTime:   day.EndTime.String(),
	}

	if day.BreakStart != nil {
		breakStart := day.BreakStart.String()
		resp.BreakStart = &breakStart
	}
	if day.BreakEnd != nil {
		breakEnd := day.BreakEnd.String()
		resp.BreakEnd = &breakEnd
	}

	return resp
}
