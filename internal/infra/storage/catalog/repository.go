package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/agendahub/AH-BookingEngine/internal/domain"
	"github.com/agendahub/AH-BookingEngine/pkg/dbmetrics"
	"github.com/agendahub/AH-BookingEngine/pkg/psqlbuilder"
)

// Repository репозиторий карточек услуг (политика бронирования)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает или обновляет карточку услуги вместе со списком
// специалистов. Вызывается внутри транзакции, чтобы карточка и список
// специалистов менялись атомарно.
func (r *Repository) Upsert(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns(
			"id",
			"company_id",
			"name",
			"duration_minutes",
			"interval_minutes",
			"max_per_slot",
			"max_per_user",
			"block_24_hours",
			"confirmation_type",
			"availability_type",
			"booking_fee",
			"is_active",
		).
		Values(
			service.ID,
			service.CompanyID,
			service.Name,
			service.DurationMinutes,
			service.IntervalBetweenSlotsMinutes,
			service.SimultaneousBookingsPerSlot,
			service.SimultaneousBookingsPerUser,
			service.Block24Hours,
			service.ConfirmationType,
			service.AvailabilityType,
			service.BookingFee,
			service.IsActive,
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			duration_minutes = EXCLUDED.duration_minutes,
			interval_minutes = EXCLUDED.interval_minutes,
			max_per_slot = EXCLUDED.max_per_slot,
			max_per_user = EXCLUDED.max_per_user,
			block_24_hours = EXCLUDED.block_24_hours,
			confirmation_type = EXCLUDED.confirmation_type,
			availability_type = EXCLUDED.availability_type,
			booking_fee = EXCLUDED.booking_fee,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	if err := r.replaceProfessionals(ctx, executor, service.ID, service.ProfessionalIDs); err != nil {
		return nil, err
	}

	return service, nil
}

// GetByID получает услугу по ID вместе со списком специалистов
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"name",
		"duration_minutes",
		"interval_minutes",
		"max_per_slot",
		"max_per_user",
		"block_24_hours",
		"confirmation_type",
		"availability_type",
		"booking_fee",
		"is_active",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.CompanyID,
		&service.Name,
		&service.DurationMinutes,
		&service.IntervalBetweenSlotsMinutes,
		&service.SimultaneousBookingsPerSlot,
		&service.SimultaneousBookingsPerUser,
		&service.Block24Hours,
		&service.ConfirmationType,
		&service.AvailabilityType,
		&service.BookingFee,
		&service.IsActive,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	professionalIDs, err := r.getProfessionalIDs(ctx, executor, service.ID)
	if err != nil {
		return nil, err
	}
	service.ProfessionalIDs = professionalIDs

	return &service, nil
}

// GetByCompany получает все услуги компании
func (r *Repository) GetByCompany(ctx context.Context, companyID int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From("services").
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompany - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompany - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: GetByCompany - scan id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByCompany - rows error: %v", ErrScanRow, err)
	}

	services := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		service, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}

	return services, nil
}

func (r *Repository) replaceProfessionals(ctx context.Context, executor dbmetrics.DBExecutor, serviceID int64, professionalIDs []int64) error {
	query, args, err := psqlbuilder.Delete("service_professionals").
		Where(squirrel.Eq{"service_id": serviceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceProfessionals - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceProfessionals - execute delete: %v", ErrExecQuery, err)
	}

	if len(professionalIDs) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("service_professionals").
		Columns("service_id", "professional_id")
	for _, professionalID := range professionalIDs {
		insertBuilder = insertBuilder.Values(serviceID, professionalID)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceProfessionals - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceProfessionals - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) getProfessionalIDs(ctx context.Context, executor dbmetrics.DBExecutor, serviceID int64) ([]int64, error) {
	query, args, err := psqlbuilder.Select("professional_id").
		From("service_professionals").
		Where(squirrel.Eq{"service_id": serviceID}).
		OrderBy("professional_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getProfessionalIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getProfessionalIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: getProfessionalIDs - scan row: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getProfessionalIDs - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}
