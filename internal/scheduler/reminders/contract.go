package reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	ListDueDayAhead(ctx context.Context, now time.Time) ([]*domain.DueReminder, error)
	ListDuePreSession(ctx context.Context, now time.Time) ([]*domain.DueReminder, error)
	MarkReminderSent(ctx context.Context, id string) (bool, error)
	MarkPreSessionReminderSent(ctx context.Context, id string) (bool, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	TouchLastReminderSentAt(ctx context.Context, id string) error
}

// Notifier интерфейс отправки Telegram уведомлений
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDrinkReminder(ctx context.Context, chatID int64, text string, drinkOptions []string) error
}

// Metrics интерфейс метрик планировщика
type Metrics interface {
	ObserveReminder(kind, status string)
	ObserveReminderTick(kind string, seconds float64)
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
