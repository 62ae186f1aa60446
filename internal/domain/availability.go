package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// ErrInvalidRule возвращается при нарушении инвариантов правила доступности.
// Правила валидируются при записи; резолвер рассчитывает на корректные данные.
var ErrInvalidRule = errors.New("domain: invalid availability rule")

// DayAvailability describes the open hours for one weekday or one
// overridden date: a working window with an optional break inside it.
type DayAvailability struct {
	Active     bool
	StartTime  types.TimeString
	EndTime    types.TimeString
	BreakStart *types.TimeString
	BreakEnd   *types.TimeString
}

// HasBreak returns true if the day carries a break interval
func (d *DayAvailability) HasBreak() bool {
	return d.BreakStart != nil && d.BreakEnd != nil
}

// Validate enforces the rule invariants: start before end, and a break
// (when present) strictly ordered and contained in the day window.
func (d *DayAvailability) Validate() error {
	if !d.Active {
		return nil
	}

	if err := d.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidRule, err)
	}
	if err := d.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidRule, err)
	}
	if !d.StartTime.IsBefore(d.EndTime) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRule, d.StartTime, d.EndTime)
	}

	// Перерыв либо задан полностью, либо не задан вовсе
	if (d.BreakStart == nil) != (d.BreakEnd == nil) {
		return fmt.Errorf("%w: break must define both start and end", ErrInvalidRule)
	}

	if d.HasBreak() {
		if err := d.BreakStart.Validate(); err != nil {
			return fmt.Errorf("%w: break start: %v", ErrInvalidRule, err)
		}
		if err := d.BreakEnd.Validate(); err != nil {
			return fmt.Errorf("%w: break end: %v", ErrInvalidRule, err)
		}
		if !d.BreakStart.IsBefore(*d.BreakEnd) {
			return fmt.Errorf("%w: break start %s must be before break end %s", ErrInvalidRule, *d.BreakStart, *d.BreakEnd)
		}
		if d.BreakStart.IsBefore(d.StartTime) || d.BreakEnd.IsAfter(d.EndTime) {
			return fmt.Errorf("%w: break [%s, %s] must lie inside the day window [%s, %s]",
				ErrInvalidRule, *d.BreakStart, *d.BreakEnd, d.StartTime, d.EndTime)
		}
	}

	return nil
}

// OpenWindows splits the day into bookable intervals around the break.
// An inactive day yields no windows.
func (d *DayAvailability) OpenWindows() []OpenWindow {
	if !d.Active {
		return nil
	}

	if !d.HasBreak() {
		return []OpenWindow{{Start: d.StartTime, End: d.EndTime}}
	}

	windows := make([]OpenWindow, 0, 2)
	if d.StartTime.IsBefore(*d.BreakStart) {
		windows = append(windows, OpenWindow{Start: d.StartTime, End: *d.BreakStart})
	}
	if d.BreakEnd.IsBefore(d.EndTime) {
		windows = append(windows, OpenWindow{Start: *d.BreakEnd, End: d.EndTime})
	}
	return windows
}

// RuleScope identifies which layer an availability rule set belongs to
type RuleScope struct {
	CompanyID      int64
	ProfessionalID *int64 // nil = company default layer
	ServiceID      *int64 // nil = not service-specific
}

// IsCompanyDefault returns true for the company-wide default layer
func (s RuleScope) IsCompanyDefault() bool {
	return s.ProfessionalID == nil && s.ServiceID == nil
}

// AvailabilityRuleSet maps weekdays (time.Weekday, 0=Sunday) to at most
// one DayAvailability each. Missing weekdays are closed.
type AvailabilityRuleSet struct {
	Scope RuleScope
	Days  map[time.Weekday]DayAvailability
}

// Validate validates every configured day of the rule set
func (rs *AvailabilityRuleSet) Validate() error {
	for weekday, day := range rs.Days {
		if weekday < time.Sunday || weekday > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range", ErrInvalidRule, weekday)
		}
		if err := day.Validate(); err != nil {
			return fmt.Errorf("weekday %d: %w", weekday, err)
		}
	}
	return nil
}

// DayFor returns the availability configured for the date's weekday
func (rs *AvailabilityRuleSet) DayFor(date time.Time) (DayAvailability, bool) {
	day, ok := rs.Days[date.Weekday()]
	return day, ok
}

// AvailabilityOverride replaces the recurring rule on a single calendar
// date: either a full-day block or a replacement day window.
type AvailabilityOverride struct {
	ID             int64
	CompanyID      int64
	ProfessionalID int64
	ServiceID      *int64 // nil = applies to every service of the professional
	Date           time.Time

	// Blocked full-day block; Replacement is ignored when set
	Blocked bool

	// Replacement day availability used instead of the recurring rule
	Replacement *DayAvailability

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces override invariants on write
func (o *AvailabilityOverride) Validate() error {
	if o.Date.IsZero() {
		return fmt.Errorf("%w: override date is required", ErrInvalidRule)
	}
	if o.Blocked {
		return nil
	}
	if o.Replacement == nil {
		return fmt.Errorf("%w: override must either block the day or replace its availability", ErrInvalidRule)
	}
	return o.Replacement.Validate()
}

// DayAvailability returns the effective day availability the override
// imposes: a closed day when blocked, otherwise the replacement.
func (o *AvailabilityOverride) DayAvailability() DayAvailability {
	if o.Blocked || o.Replacement == nil {
		return DayAvailability{Active: false}
	}
	return *o.Replacement
}
