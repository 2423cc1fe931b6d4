package book_appointment

import (
	"fmt"
	"strings"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TelegramID <= 0 {
		return fmt.Errorf("%w: telegramID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ClientName) == "" {
		return fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}

	// Режим модельного слота: дата и время определяются слотом
	if req.SlotID != nil {
		return nil
	}

	// Режим свободного выбора: дата и время обязательны
	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.StartTime == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	return nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
