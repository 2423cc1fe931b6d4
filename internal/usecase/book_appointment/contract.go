package book_appointment

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

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByTelegramID(ctx context.Context, masterID string, telegramID int64) (*domain.Client, error)
	FindUnlinkedByUsername(ctx context.Context, masterID, username string) ([]*domain.Client, error)
	BindTelegram(ctx context.Context, id string, telegramID int64) error
	Create(ctx context.Context, c *domain.Client) (*domain.Client, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}

// SlotRepository интерфейс репозитория слотов доступности
type SlotRepository interface {
	GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error)
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	ListBookedIntervals(ctx context.Context, masterID string, date time.Time) ([]*domain.BookedInterval, error)
	ExistsScheduledBySlotID(ctx context.Context, slotID string) (bool, error)
	ListViews(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.AppointmentView, error)
}

// Notifier интерфейс отправки Telegram уведомлений
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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
