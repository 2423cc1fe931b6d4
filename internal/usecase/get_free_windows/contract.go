package get_free_windows

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// MasterRepository интерфейс репозитория мастера
type MasterRepository interface {
	GetMaster(ctx context.Context) (*domain.Master, error)
	GetByID(ctx context.Context, id string) (*domain.Master, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}

// SlotRepository интерфейс репозитория слотов доступности
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListBookedIntervals получает проекции запланированных записей мастера на дату
	ListBookedIntervals(ctx context.Context, masterID string, date time.Time) ([]*domain.BookedInterval, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
