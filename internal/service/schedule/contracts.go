package schedule

import (
	"context"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов доступности
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) (*domain.AvailabilitySlot, error)
	GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error)
	Update(ctx context.Context, slot *domain.AvailabilitySlot) error
	Delete(ctx context.Context, id string) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ExistsScheduledBySlotID(ctx context.Context, slotID string) (bool, error)
	DetachFromSlot(ctx context.Context, slotID string) error
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	ListTelegramIDs(ctx context.Context, masterID string) ([]int64, error)
}

// Notifier интерфейс отправки Telegram уведомлений
type Notifier interface {
	SendBroadcast(ctx context.Context, chatIDs []int64, text string) int
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
