package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetViewByID(ctx context.Context, id string) (*domain.AppointmentView, error)
	ListViews(ctx context.Context, filter domain.AppointmentFilter) ([]*domain.AppointmentView, error)
	UpdateStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id string, reason string, by domain.CancelledBy) error
	SetReminderEnabled(ctx context.Context, id string, enabled bool) error
	MarkFeedbackRequested(ctx context.Context, id string) (bool, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	GetByTelegramID(ctx context.Context, masterID string, telegramID int64) (*domain.Client, error)
}

// MasterRepository интерфейс репозитория мастеров
type MasterRepository interface {
	GetMaster(ctx context.Context) (*domain.Master, error)
}

// Notifier интерфейс отправки Telegram уведомлений
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// TimeProvider интерфейс для получения текущего времени (для тестируемости)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
