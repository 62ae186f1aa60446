package rules

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/pkg/dbmetrics"
	"github.com/agendahub/AH-BookingEngine/pkg/psqlbuilder"
	"github.com/agendahub/AH-BookingEngine/pkg/types"
)

// Repository репозиторий правил доступности и переопределений дат.
//
// Правила хранятся построчно: одна строка - один день недели одной области
// (слоя). Область задаётся парой (professional_id, service_id):
//  1. (NULL, NULL)     - дефолт компании
//  2. (prof, NULL)     - собственное расписание специалиста
//  3. (prof, service)  - расписание услуги у специалиста
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ReplaceRuleSet заменяет набор правил области целиком: удаляет прежние
// строки и вставляет новые. Вызывается внутри транзакции, чтобы читатели
// не видели частично записанное расписание.
func (r *Repository) ReplaceRuleSet(ctx context.Context, ruleSet *domain.AvailabilityRuleSet) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("availability_rules").
		Where(squirrel.Eq{"company_id": ruleSet.Scope.CompanyID})

	// Фильтрация по professional_id (NULL или конкретное значение)
	if ruleSet.Scope.ProfessionalID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"professional_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"professional_id": *ruleSet.Scope.ProfessionalID})
	}

	// Фильтрация по service_id (NULL или конкретное значение)
	if ruleSet.Scope.ServiceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": *ruleSet.Scope.ServiceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceRuleSet - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceRuleSet - execute delete: %v", ErrExecQuery, err)
	}

	if len(ruleSet.Days) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability_rules").
		Columns(
			"company_id",
			"professional_id",
			"service_id",
			"weekday",
			"active",
			"start_time",
			"end_time",
			"break_start",
			"break_end",
		)

	for weekday, day := range ruleSet.Days {
		insertBuilder = insertBuilder.Values(
			ruleSet.Scope.CompanyID,
			ruleSet.Scope.ProfessionalID,
			ruleSet.Scope.ServiceID,
			int(weekday),
			day.Active,
			day.StartTime,
			day.EndTime,
			day.BreakStart,
			day.BreakEnd,
		)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceRuleSet - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceRuleSet - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetRuleSet получает набор правил конкретной области
func (r *Repository) GetRuleSet(ctx context.Context, scope domain.RuleScope) (*domain.AvailabilityRuleSet, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"weekday",
		"active",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
	).
		From("availability_rules").
		Where(squirrel.Eq{"company_id": scope.CompanyID}).
		OrderBy("weekday ASC")

	if scope.ProfessionalID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"professional_id": *scope.ProfessionalID})
	}

	if scope.ServiceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *scope.ServiceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRuleSet - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRuleSet - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make(map[time.Weekday]domain.DayAvailability)

	for rows.Next() {
		var weekday int
		var day domain.DayAvailability
		var startTime, endTime sql.NullString
		var breakStart, breakEnd *string

		if err := rows.Scan(&weekday, &day.Active, &startTime, &endTime, &breakStart, &breakEnd); err != nil {
			return nil, fmt.Errorf("%w: GetRuleSet - scan row: %v", ErrScanRow, err)
		}

		if startTime.Valid {
			day.StartTime = trimTime(startTime.String)
		}
		if endTime.Valid {
			day.EndTime = trimTime(endTime.String)
		}
		if breakStart != nil {
			ts := trimTime(*breakStart)
			day.BreakStart = &ts
		}
		if breakEnd != nil {
			ts := trimTime(*breakEnd)
			day.BreakEnd = &ts
		}

		days[time.Weekday(weekday)] = day
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRuleSet - rows error: %v", ErrScanRow, err)
	}

	if len(days) == 0 {
		return nil, ErrRuleSetNotFound
	}

	return &domain.AvailabilityRuleSet{Scope: scope, Days: days}, nil
}

// GetRuleSetWithHierarchy получает набор правил с учетом иерархии слоёв.
// Приоритет применения:
//  1. Правила услуги у специалиста (professionalID, serviceID) - если serviceID задан
//  2. Собственные правила специалиста (professionalID, NULL) - если professionalID задан
//  3. Дефолт компании (NULL, NULL)
//
// Если правила не найдены ни на одном уровне, возвращает ErrRuleSetNotFound
func (r *Repository) GetRuleSetWithHierarchy(ctx context.Context, companyID int64, professionalID *int64, serviceID *int64) (*domain.AvailabilityRuleSet, error) {
	if professionalID != nil && serviceID != nil {
		ruleSet, err := r.GetRuleSet(ctx, domain.RuleScope{CompanyID: companyID, ProfessionalID: professionalID, ServiceID: serviceID})
		if err == nil {
			return ruleSet, nil
		}
		if err != ErrRuleSetNotFound {
			return nil, fmt.Errorf("%w: GetRuleSetWithHierarchy - level 1 (professional+service): %v", ErrExecQuery, err)
		}
	}

	if professionalID != nil {
		ruleSet, err := r.GetRuleSet(ctx, domain.RuleScope{CompanyID: companyID, ProfessionalID: professionalID})
		if err == nil {
			return ruleSet, nil
		}
		if err != ErrRuleSetNotFound {
			return nil, fmt.Errorf("%w: GetRuleSetWithHierarchy - level 2 (professional only): %v", ErrExecQuery, err)
		}
	}

	ruleSet, err := r.GetRuleSet(ctx, domain.RuleScope{CompanyID: companyID})
	if err == nil {
		return ruleSet, nil
	}
	if err != ErrRuleSetNotFound {
		return nil, fmt.Errorf("%w: GetRuleSetWithHierarchy - level 3 (company default): %v", ErrExecQuery, err)
	}

	return nil, ErrRuleSetNotFound
}

// UpsertOverride создает или заменяет переопределение даты
func (r *Repository) UpsertOverride(ctx context.Context, override *domain.AvailabilityOverride) (*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var startTime, endTime, breakStart, breakEnd *types.TimeString
	if override.Replacement != nil {
		startTime = &override.Replacement.StartTime
		endTime = &override.Replacement.EndTime
		breakStart = override.Replacement.BreakStart
		breakEnd = override.Replacement.BreakEnd
	}

	query, args, err := psqlbuilder.Insert("availability_overrides").
		Columns(
			"company_id",
			"professional_id",
			"service_id",
			"override_date",
			"blocked",
			"start_time",
			"end_time",
			"break_start",
			"break_end",
		).
		Values(
			override.CompanyID,
			override.ProfessionalID,
			override.ServiceID,
			override.Date,
			override.Blocked,
			startTime,
			endTime,
			breakStart,
			breakEnd,
		).
		Suffix(`ON CONFLICT (professional_id, override_date, COALESCE(service_id, 0)) DO UPDATE SET
			blocked = EXCLUDED.blocked,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&override.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute insert: %v", ErrExecQuery, err)
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return override, nil
}

// GetOverrides получает переопределения дат специалиста за период.
// Возвращает и общие переопределения (service_id IS NULL), и относящиеся
// к указанной услуге; приоритет между ними разбирает резолвер.
func (r *Repository) GetOverrides(ctx context.Context, professionalID int64, serviceID *int64, from, to time.Time) ([]*domain.AvailabilityOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"company_id",
		"professional_id",
		"service_id",
		"override_date",
		"blocked",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
		"created_at",
		"updated_at",
	).
		From("availability_overrides").
		Where(squirrel.Eq{"professional_id": professionalID}).
		Where(squirrel.GtOrEq{"override_date": from}).
		Where(squirrel.LtOrEq{"override_date": to}).
		OrderBy("override_date ASC")

	if serviceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"service_id": nil},
			squirrel.Eq{"service_id": *serviceID},
		})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.AvailabilityOverride, 0)

	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetOverrides - scan row: %v", ErrScanRow, err)
		}
		overrides = append(overrides, override)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOverrides - rows error: %v", ErrScanRow, err)
	}

	return overrides, nil
}

// DeleteOverride удаляет переопределение даты
func (r *Repository) DeleteOverride(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrOverrideNotFound
	}

	return nil
}

func scanOverride(rows *sql.Rows) (*domain.AvailabilityOverride, error) {
	var override domain.AvailabilityOverride
	var startTime, endTime, breakStart, breakEnd *string
	var createdAt, updatedAt sql.NullTime

	err := rows.Scan(
		&override.ID,
		&override.CompanyID,
		&override.ProfessionalID,
		&override.ServiceID,
		&override.Date,
		&override.Blocked,
		&startTime,
		&endTime,
		&breakStart,
		&breakEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if !override.Blocked && startTime != nil && endTime != nil {
		replacement := domain.DayAvailability{
			Active:    true,
			StartTime: trimTime(*startTime),
			EndTime:   trimTime(*endTime),
		}
		if breakStart != nil {
			ts := trimTime(*breakStart)
			replacement.BreakStart = &ts
		}
		if breakEnd != nil {
			ts := trimTime(*breakEnd)
			replacement.BreakEnd = &ts
		}
		override.Replacement = &replacement
	}

	override.CreatedAt = createdAt.Time
	override.UpdatedAt = updatedAt.Time

	return &override, nil
}

// trimTime отбрасывает секунды из значения TIME ("09:00:00" -> "09:00")
func trimTime(s string) types.TimeString {
	if len(s) > 5 {
		s = s[:5]
	}
	return types.TimeString(s)
}
