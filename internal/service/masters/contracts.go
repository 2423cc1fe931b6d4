package masters

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// MasterRepository интерфейс репозитория мастеров
type MasterRepository interface {
	GetMaster(ctx context.Context) (*domain.Master, error)
	GetByID(ctx context.Context, id string) (*domain.Master, error)
	List(ctx context.Context) ([]*domain.Master, error)
	UpdateDrinkOptions(ctx context.Context, id string, options []string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
