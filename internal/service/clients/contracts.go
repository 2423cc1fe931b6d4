package clients

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	List(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, id string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
