package reengagement

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	ListDueReengagement(ctx context.Context, now time.Time) ([]*domain.DueReengagement, error)
	TouchLastReminderSentAt(ctx context.Context, id string) error
}

// SlotRepository интерфейс репозитория слотов доступности
type SlotRepository interface {
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.AvailabilitySlot, error)
}

// Notifier интерфейс отправки Telegram уведомлений
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
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
