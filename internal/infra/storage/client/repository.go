package client

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

const clientsTable = "clients"

var clientColumns = []string{
	"id",
	"master_id",
	"name",
	"telegram_id",
	"username",
	"phone",
	"notes",
	"last_reminder_sent_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с клиентами мастера
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись клиента
func (r *Repository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(clientsTable).
		Columns(
			"id",
			"master_id",
			"name",
			"telegram_id",
			"username",
			"phone",
			"notes",
		).
		Values(
			c.ID,
			c.MasterID,
			c.Name,
			c.TelegramID,
			c.Username,
			c.Phone,
			c.Notes,
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

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return c, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := r.scanClientRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %v", ErrScanRow, err)
	}

	return c, nil
}

// GetByTelegramID получает клиента мастера, привязанного к Telegram аккаунту
func (r *Repository) GetByTelegramID(ctx context.Context, masterID string, telegramID int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"master_id": masterID, "telegram_id": telegramID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByTelegramID - build select query: %v", ErrBuildQuery, err)
	}

	c, err := r.scanClientRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByTelegramID - scan client: %v", ErrScanRow, err)
	}

	return c, nil
}

// FindUnlinkedByUsername ищет записи клиентов без привязки к Telegram,
// заведенные мастером вручную с указанием username.
// Используется для автоматической привязки при первой записи клиента.
func (r *Repository) FindUnlinkedByUsername(ctx context.Context, masterID, username string) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From(clientsTable).
		Where(squirrel.Eq{"master_id": masterID}).
		Where(squirrel.Expr("telegram_id IS NULL")).
		Where(squirrel.Expr("LOWER(TRIM(LEADING '@' FROM username)) = ?", domain.NormalizeUsername(username))).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindUnlinkedByUsername - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindUnlinkedByUsername - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanClients(rows, "FindUnlinkedByUsername")
}

// BindTelegram привязывает запись клиента к Telegram аккаунту
func (r *Repository) BindTelegram(ctx context.Context, id string, telegramID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(clientsTable).
		Set("telegram_id", telegramID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: BindTelegram - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: BindTelegram - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: BindTelegram - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClientNotFound
	}

	return nil
}

// List получает клиентов мастера с фильтрацией
func (r *Repository) List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(clientColumns...).
		From(clientsTable).
		OrderBy("name ASC")

	if filter.MasterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"master_id": *filter.MasterID})
	}

	// Поиск по имени, username или телефону
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"phone": pattern},
		})
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

	return r.scanClients(rows, "List")
}

// ListTelegramIDs получает Telegram ID всех привязанных клиентов мастера.
// Используется для рассылки уведомлений об акциях.
func (r *Repository) ListTelegramIDs(ctx context.Context, masterID string) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT telegram_id").
		From(clientsTable).
		Where(squirrel.Eq{"master_id": masterID}).
		Where(squirrel.Expr("telegram_id IS NOT NULL")).
		OrderBy("telegram_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListTelegramIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTelegramIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	telegramIDs := make([]int64, 0)
	for rows.Next() {
		var telegramID int64
		if err := rows.Scan(&telegramID); err != nil {
			return nil, fmt.Errorf("%w: ListTelegramIDs - scan telegram_id: %v", ErrScanRow, err)
		}
		telegramIDs = append(telegramIDs, telegramID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTelegramIDs - rows error: %v", ErrScanRow, err)
	}

	return telegramIDs, nil
}

// Update обновляет данные клиента
func (r *Repository) Update(ctx context.Context, c *domain.Client) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(clientsTable).
		Set("name", c.Name).
		Set("telegram_id", c.TelegramID).
		Set("username", c.Username).
		Set("phone", c.Phone).
		Set("notes", c.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
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
		return ErrClientNotFound
	}

	return nil
}

// ListDueReengagement получает клиентов, которым пора отправить возвращающее
/// напоминание: привязан Telegram, последний завершенный визит был не меньше
// двух недель назад, предыдущее напоминание отправлялось не меньше 23 часов
// назад (или не отправлялось вовсе).
func (r *Repository) ListDueReengagement(ctx context.Context, now time.Time) ([]*domain.DueReengagement, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	nudgeBefore := now.AddDate(0, 0, -domain.ReengagementNudgeDays)
	gapBefore := now.Add(-domain.ReengagementMinGapHours * time.Hour)

	query, args, err := psqlbuilder.Select(
		"c.id",
		"c.master_id",
		"c.name",
		"c.telegram_id",
		"MAX(a.date) AS last_visit",
	).
		From(clientsTable+" c").
		Join("appointments a ON a.client_id = c.id").
		Where(squirrel.Eq{"a.status": domain.StatusDone}).
		Where(squirrel.Expr("c.telegram_id IS NOT NULL")).
		Where(squirrel.Expr("(c.last_reminder_sent_at IS NULL OR c.last_reminder_sent_at <= ?)", gapBefore)).
		GroupBy("c.id", "c.master_id", "c.name", "c.telegram_id").
		Having(squirrel.Expr("MAX(a.date) <= ?", nudgeBefore)).
		OrderBy("last_visit ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReengagement - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDueReengagement - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	due := make([]*domain.DueReengagement, 0)
	for rows.Next() {
		var d domain.DueReengagement

		err := rows.Scan(
			&d.ClientID,
			&d.MasterID,
			&d.Name,
			&d.TelegramID,
			&d.LastVisit,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDueReengagement - scan row: %v", ErrScanRow, err)
		}

		due = append(due, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDueReengagement - rows error: %v", ErrScanRow, err)
	}

	return due, nil
}

// TouchLastReminderSentAt отмечает момент последней отправки напоминания клиенту
func (r *Repository) TouchLastReminderSentAt(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(clientsTable).
		Set("last_reminder_sent_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: TouchLastReminderSentAt - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: TouchLastReminderSentAt - execute update: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет запись клиента
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(clientsTable).
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
		return ErrClientNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanClients(rows *sql.Rows, method string) ([]*domain.Client, error) {
	clients := make([]*domain.Client, 0)

	for rows.Next() {
		c, err := r.scanClientRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, method, err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, method, err)
	}

	return clients, nil
}

func (r *Repository) scanClientRow(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.MasterID,
		&c.Name,
		&c.TelegramID,
		&c.Username,
		&c.Phone,
		&c.Notes,
		&c.LastReminderSentAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}
