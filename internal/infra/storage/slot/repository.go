package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const slotsTable = "availability_slots"

var slotColumns = []string{
	"id",
	"master_id",
	"date",
	"start_time",
	"end_time",
	"is_available",
	"for_models",
	"service_id",
	"price_modifier",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами доступности мастера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот доступности
func (r *Repository) Create(ctx context.Context, s *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(slotsTable).
		Columns(
			"id",
			"master_id",
			"date",
			"start_time",
			"end_time",
			"is_available",
			"for_models",
			"service_id",
			"price_modifier",
		).
		Values(
			s.ID,
			s.MasterID,
			s.Date,
			s.StartTime,
			s.EndTime,
			s.IsAvailable,
			s.ForModels,
			s.ServiceID,
			s.PriceModifier,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает слот по ID
// Внутри транзакции блокирует строку (FOR UPDATE) для защиты от гонки бронирования.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(slotsTable).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := r.scanSlotRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// List получает слоты с фильтрацией
//
// Примеры использования:
//
// 1. Слоты мастера на конкретную дату:
//    filter := domain.SlotFilter{MasterID: &masterID, DateFrom: &date, DateTo: &date}
//
// 2. Доступные модельные слоты начиная с сегодня:
//    forModels := true
//    filter := domain.SlotFilter{ForModels: &forModels, DateFrom: &today, AvailableOnly: true}
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(slotsTable).
		OrderBy("date ASC, start_time ASC")

	if filter.MasterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"master_id": *filter.MasterID})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.ForModels != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"for_models": *filter.ForModels})
	}
	if filter.AvailableOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_available": true})
	}

	// Внутри транзакции блокируем слоты конкретной даты (путь создания записи)
	if dbmetrics.IsInTransaction(ctx) && singleDate(filter) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.AvailabilitySlot, 0)
	for rows.Next() {
		s, err := r.scanSlotRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

// Update обновляет слот
func (r *Repository) Update(ctx context.Context, s *domain.AvailabilitySlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(slotsTable).
		Set("date", s.Date).
		Set("start_time", s.StartTime).
		Set("end_time", s.EndTime).
		Set("is_available", s.IsAvailable).
		Set("for_models", s.ForModels).
		Set("service_id", s.ServiceID).
		Set("price_modifier", s.PriceModifier).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Delete удаляет слот
// Связанные записи открепляются отдельно (appointment.Repository.DetachFromSlot).
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(slotsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func singleDate(filter domain.SlotFilter) bool {
	return filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.Equal(*filter.DateTo)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSlotRow(row rowScanner) (*domain.AvailabilitySlot, error) {
	var s domain.AvailabilitySlot
	var date time.Time
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.MasterID,
		&date,
		&s.StartTime,
		&s.EndTime,
		&s.IsAvailable,
		&s.ForModels,
		&s.ServiceID,
		&s.PriceModifier,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Date = date
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
