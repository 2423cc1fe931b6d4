package master

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
)

const usersTable = "users"

var masterColumns = []string{
	"id",
	"first_name",
	"last_name",
	"username",
	"telegram_id",
	"is_admin",
	"drink_options",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с мастером (таблица users, is_master = true)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастера
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetMaster получает мастера системы.
// Сервис обслуживает одного мастера; если запись отсутствует, запись на приём невозможна.
func (r *Repository) GetMaster(ctx context.Context) (*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(masterColumns...).
		From(usersTable).
		Where(squirrel.Eq{"is_master": true}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetMaster - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanMaster(executor.QueryRowContext(ctx, query, args...), "GetMaster")
}

// GetByID получает мастера по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(masterColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": id, "is_master": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanMaster(executor.QueryRowContext(ctx, query, args...), "GetByID")
}

// List получает всех мастеров системы
func (r *Repository) List(ctx context.Context) ([]*domain.Master, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(masterColumns...).
		From(usersTable).
		Where(squirrel.Eq{"is_master": true}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	masters := make([]*domain.Master, 0)
	for rows.Next() {
		m, err := r.scanMasterRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		masters = append(masters, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return masters, nil
}

// UpdateDrinkOptions обновляет список напитков, предлагаемых клиентам перед сеансом
func (r *Repository) UpdateDrinkOptions(ctx context.Context, id string, options []string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(usersTable).
		Set("drink_options", pq.Array(options)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_master": true}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateDrinkOptions - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateDrinkOptions - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateDrinkOptions - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrMasterNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanMaster(row rowScanner, method string) (*domain.Master, error) {
	m, err := r.scanMasterRow(row)
	if err == sql.ErrNoRows {
		return nil, ErrMasterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan master: %v", ErrScanRow, method, err)
	}
	return m, nil
}

func (r *Repository) scanMasterRow(row rowScanner) (*domain.Master, error) {
	var m domain.Master
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.FirstName,
		&m.LastName,
		&m.Username,
		&m.TelegramID,
		&m.IsAdmin,
		pq.Array(&m.DrinkOptions),
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	return &m, nil
}
