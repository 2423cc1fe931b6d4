package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const appointmentsTable = "appointments"

// Коды ошибок PostgreSQL, сигнализирующие о конфликте по времени:
// 23P01 - exclusion constraint (пересечение интервалов),
// 23505 - unique constraint (вторая запись на модельный слот).
const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
)

var appointmentColumns = []string{
	"id",
	"client_id",
	"master_id",
	"service_id",
	"slot_id",
	"date",
	"start_time",
	"status",
	"source",
	"note",
	"reference_image_url",
	"reminder_enabled",
	"reminder_sent_at",
	"pre_session_reminder_sent_at",
	"feedback_requested_at",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на приём
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись на приём
// Вызывается внутри сериализуемой транзакции из usecase бронирования;
// конфликты по времени, пойманные constraint'ами БД, транслируются в ErrTimeConflict.
func (r *Repository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(appointmentsTable).
		Columns(
			"id",
			"client_id",
			"master_id",
			"service_id",
			"slot_id",
			"date",
			"start_time",
			"status",
			"source",
			"note",
			"reference_image_url",
			"reminder_enabled",
		).
		Values(
			a.ID,
			a.ClientID,
			a.MasterID,
			a.ServiceID,
			a.SlotID,
			a.Date,
			a.StartTime,
			a.Status,
			a.Source,
			a.Note,
			a.ReferenceImageURL,
			a.ReminderEnabled,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if string(pqErr.Code) == pgExclusionViolation || string(pqErr.Code) == pgUniqueViolation {
				return nil, fmt.Errorf("%w: Create - %s: %v", ErrTimeConflict, pqErr.Code, err)
			}
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From(appointmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	a, err := r.scanAppointmentRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return a, nil
}

// ListBookedIntervals получает проекции запланированных записей мастера на дату.
// Используется движком разворачивания слотов для вычитания занятого времени.
// Внутри транзакции блокирует строки (FOR UPDATE) для защиты от гонки двойного бронирования.
func (r *Repository) ListBookedIntervals(ctx context.Context, masterID string, date time.Time) ([]*domain.BookedInterval, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"a.id",
		"a.slot_id",
		"a.service_id",
		"a.start_time",
		"s.duration_minutes",
	).
		From(appointmentsTable + " a").
		LeftJoin("services s ON s.id = a.service_id").
		Where(squirrel.Eq{
			"a.master_id": masterID,
			"a.date":      date,
			"a.status":    domain.StatusScheduled,
		}).
		OrderBy("a.start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF a")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookedIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBookedIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	intervals := make([]*domain.BookedInterval, 0)
	for rows.Next() {
		var interval domain.BookedInterval
		err := rows.Scan(
			&interval.AppointmentID,
			&interval.SlotID,
			&interval.ServiceID,
			&interval.StartTime,
			&interval.ServiceDurationMinutes,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListBookedIntervals - scan row: %v", ErrScanRow, err)
		}
		intervals = append(intervals, &interval)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBookedIntervals - rows error: %v", ErrScanRow, err)
	}

	return intervals, nil
}

// ExistsScheduledBySlotID проверяет, занят ли модельный слот запланированной записью.
// Внутри транзакции блокирует найденную строку.
func (r *Repository) ExistsScheduledBySlotID(ctx context.Context, slotID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id").
		From(appointmentsTable).
		Where(squirrel.Eq{
			"slot_id": slotID,
			"status":  domain.StatusScheduled,
		}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ExistsScheduledBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	var id string
	err = executor.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsScheduledBySlotID - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

// ListScheduledSlotIDs возвращает ID слотов из переданного набора, занятых
// запланированной записью. Одним запросом закрывает проверку занятости
// для целой выборки модельных слотов.
func (r *Repository) ListScheduledSlotIDs(ctx context.Context, slotIDs []string) ([]string, error) {
	if len(slotIDs) == 0 {
		return []string{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT slot_id").
		From(appointmentsTable).
		Where(squirrel.Eq{
			"slot_id": slotIDs,
			"status":  domain.StatusScheduled,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListScheduledSlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListScheduledSlotIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	taken := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListScheduledSlotIDs - scan row: %v", ErrScanRow, err)
		}
		taken = append(taken, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListScheduledSlotIDs - rows error: %v", ErrScanRow, err)
	}

	return taken, nil
}

// GetViewByID получает запись с присоединёнными данными клиента, услуги и мастера
func (r *Repository) GetViewByID(ctx context.Context, id string) (*domain.AppointmentView, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.viewSelect().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetViewByID - build select query: %v", ErrBuildQuery, err)
	}

	v, err := r.scanViewRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetViewByID - scan view: %v", ErrScanRow, err)
	}

	return v, nil
}

// ListViews получает записи с присоединёнными данными с гибкой фильтрацией
//
// Примеры использования:
//
// 1. Предстоящие записи клиента:
//    status := domain.StatusScheduled
//    filter := domain.AppointmentFilter{ClientID: &clientID, Status: &status}
//
// 2. Записи мастера на конкретную дату:
//    filter := domain.AppointmentFilter{MasterID: &masterID, DateFrom: &date, DateTo: &date}
func (r *Repository) ListViews(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.AppointmentView, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := r.viewSelect()

	if filter.MasterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.master_id": *filter.MasterID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.client_id": *filter.ClientID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"a.status": *filter.Status})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"a.date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"a.date": *filter.DateTo})
	}

	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateFrom.Equal(*filter.DateTo) {
		selectBuilder = selectBuilder.OrderBy("a.start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("a.date ASC, a.start_time ASC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListViews - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListViews - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	views := make([]*domain.AppointmentView, 0)
	for rows.Next() {
		v, err := r.scanViewRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListViews - scan row: %v", ErrScanRow, err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListViews - rows error: %v", ErrScanRow, err)
	}

	return views, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel отменяет запись с указанием причины и стороны, отменившей запись
func (r *Repository) Cancel(ctx context.Context, id string, reason string, by domain.CancelledBy) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", by).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// SetReminderEnabled включает или выключает напоминания для записи
func (r *Repository) SetReminderEnabled(ctx context.Context, id string, enabled bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("reminder_enabled", enabled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetReminderEnabled - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetReminderEnabled - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetReminderEnabled - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// DetachFromSlot открепляет записи от слота (slot_id -> NULL).
// Вызывается при удалении слота: записи сохраняют дату и время.
func (r *Repository) DetachFromSlot(ctx context.Context, slotID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set("slot_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DetachFromSlot - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DetachFromSlot - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// ListDueDayAhead получает записи, которым пора отправить напоминание за день:
// запланированные, с включёнными напоминаниями, без отметки об отправке,
// начинающиеся в ближайшие 24 часа (прошедшие записи пропускаются).
func (r *Repository) ListDueDayAhead(ctx context.Context, now time.Time) ([]*domain.DueReminder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	windowEnd := now.Add(domain.DayAheadWindowHours * time.Hour)

	query, args, err := r.dueReminderSelect().
		Where(squirrel.Expr("a.reminder_sent_at IS NULL")).
		Where(squirrel.Expr("(a.date + a.start_time) > ?", now)).
		Where(squirrel.Expr("(a.date + a.start_time) <= ?", windowEnd)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDueDayAhead - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryDueReminders(ctx, executor, query, args, "ListDueDayAhead")
}

// ListDuePreSession получает записи, которым пора отправить напоминание
// перед сеансом: начало через 5-10 минут, отметка ещё не стоит.
func (r *Repository) ListDuePreSession(ctx context.Context, now time.Time) ([]*domain.DueReminder, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	windowStart := now.Add(domain.PreSessionWindowMinMinutes * time.Minute)
	windowEnd := now.Add(domain.PreSessionWindowMaxMinutes * time.Minute)

	query, args, err := r.dueReminderSelect().
		Where(squirrel.Expr("a.pre_session_reminder_sent_at IS NULL")).
		Where(squirrel.Expr("(a.date + a.start_time) >= ?", windowStart)).
		Where(squirrel.Expr("(a.date + a.start_time) <= ?", windowEnd)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDuePreSession - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryDueReminders(ctx, executor, query, args, "ListDuePreSession")
}

// MarkReminderSent проставляет отметку об отправке напоминания за день.
// Условие reminder_sent_at IS NULL гарантирует, что отметку получает ровно
// один из конкурирующих тиков планировщика: false означает, что запись уже
// обработана или недоступна для напоминания.
func (r *Repository) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	return r.markOnce(ctx, id, "reminder_sent_at", "MarkReminderSent")
}

// MarkPreSessionReminderSent проставляет отметку об отправке напоминания перед сеансом
func (r *Repository) MarkPreSessionReminderSent(ctx context.Context, id string) (bool, error) {
	return r.markOnce(ctx, id, "pre_session_reminder_sent_at", "MarkPreSessionReminderSent")
}

// MarkFeedbackRequested проставляет отметку о запросе отзыва после завершения сеанса
func (r *Repository) MarkFeedbackRequested(ctx context.Context, id string) (bool, error) {
	return r.markOnce(ctx, id, "feedback_requested_at", "MarkFeedbackRequested")
}

func (r *Repository) markOnce(ctx context.Context, id, column, method string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(appointmentsTable).
		Set(column, squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr(column + " IS NULL")).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, method, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, method, err)
	}

	return rowsAffected > 0, nil
}

func (r *Repository) viewSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"a.id",
		"a.client_id",
		"a.master_id",
		"a.service_id",
		"a.slot_id",
		"a.date",
		"a.start_time",
		"a.status",
		"a.source",
		"a.note",
		"a.reference_image_url",
		"a.reminder_enabled",
		"a.reminder_sent_at",
		"a.pre_session_reminder_sent_at",
		"a.feedback_requested_at",
		"a.cancellation_reason",
		"a.cancelled_by",
		"a.cancelled_at",
		"a.created_at",
		"a.updated_at",
		"c.name",
		"c.telegram_id",
		"c.username",
		"s.name",
		"s.duration_minutes",
		"u.telegram_id",
	).
		From(appointmentsTable + " a").
		Join("clients c ON c.id = a.client_id").
		LeftJoin("services s ON s.id = a.service_id").
		Join("users u ON u.id = a.master_id")
}

func (r *Repository) dueReminderSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"a.id",
		"a.client_id",
		"c.name",
		"c.telegram_id",
		"u.telegram_id",
		"s.name",
		"a.date",
		"a.start_time",
		"u.drink_options",
	).
		From(appointmentsTable + " a").
		Join("clients c ON c.id = a.client_id").
		LeftJoin("services s ON s.id = a.service_id").
		Join("users u ON u.id = a.master_id").
		Where(squirrel.Eq{
			"a.status":           domain.StatusScheduled,
			"a.reminder_enabled": true,
		}).
		OrderBy("a.date ASC, a.start_time ASC")
}

func (r *Repository) queryDueReminders(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) ([]*domain.DueReminder, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, method, err)
	}
	defer rows.Close()

	due := make([]*domain.DueReminder, 0)
	for rows.Next() {
		var d domain.DueReminder
		var date time.Time

		err := rows.Scan(
			&d.AppointmentID,
			&d.ClientID,
			&d.ClientName,
			&d.ClientTelegramID,
			&d.MasterTelegramID,
			&d.ServiceName,
			&date,
			&d.StartTime,
			pq.Array(&d.DrinkOptions),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}

		d.Date = date
		due = append(due, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return due, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointmentRow(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var date time.Time
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.ClientID,
		&a.MasterID,
		&a.ServiceID,
		&a.SlotID,
		&date,
		&a.StartTime,
		&a.Status,
		&a.Source,
		&a.Note,
		&a.ReferenceImageURL,
		&a.ReminderEnabled,
		&a.ReminderSentAt,
		&a.PreSessionReminderSentAt,
		&a.FeedbackRequestedAt,
		&a.CancellationReason,
		&a.CancelledBy,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Date = date
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func (r *Repository) scanViewRow(row rowScanner) (*domain.AppointmentView, error) {
	var v domain.AppointmentView
	var date time.Time
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&v.ID,
		&v.ClientID,
		&v.MasterID,
		&v.ServiceID,
		&v.SlotID,
		&date,
		&v.StartTime,
		&v.Status,
		&v.Source,
		&v.Note,
		&v.ReferenceImageURL,
		&v.ReminderEnabled,
		&v.ReminderSentAt,
		&v.PreSessionReminderSentAt,
		&v.FeedbackRequestedAt,
		&v.CancellationReason,
		&v.CancelledBy,
		&v.CancelledAt,
		&createdAt,
		&updatedAt,
		&v.ClientName,
		&v.ClientTelegramID,
		&v.ClientUsername,
		&v.ServiceName,
		&v.ServiceDurationMinutes,
		&v.MasterTelegramID,
	)
	if err != nil {
		return nil, err
	}

	v.Date = date
	v.CreatedAt = createdAt.Time
	v.UpdatedAt = updatedAt.Time

	return &v, nil
}
