package catalog

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id string) (*domain.Service, error)
	List(ctx context.Context, filter domain.ServiceFilter) ([]*domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) error
	Deactivate(ctx context.Context, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
