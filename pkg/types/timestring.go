package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeString возвращается при некорректном формате времени
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString строковое представление времени суток в формате "HH:MM:SS".
// Используется для хранения времени слотов и записей без привязки к дате и таймзоне.
type TimeString string

// NewTimeString создает TimeString из time.Time (отбрасывает дату)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04:05"))
}

// NewTimeStringFromString парсит строку "HH:MM" или "HH:MM:SS" и нормализует к "HH:MM:SS"
func NewTimeStringFromString(s string) (TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}

	seconds := 0
	if len(parts) == 3 {
		seconds, err = strconv.Atoi(parts[2])
		if err != nil || seconds < 0 || seconds > 59 {
			return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
		}
	}

	return TimeString(fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)), nil
}

// FromMinutes конвертирует минуты от полуночи в TimeString ("HH:MM:00")
func FromMinutes(m int) TimeString {
	return TimeString(fmt.Sprintf("%02d:%02d:00", m/60, m%60))
}

// ToMinutes конвертирует время в минуты от полуночи.
// Предполагает корректный формат (данные из БД); секунды отбрасываются.
func (t TimeString) ToMinutes() int {
	parts := strings.Split(string(t), ":")
	if len(parts) < 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// Validate проверяет формат времени
func (t TimeString) Validate() error {
	_, err := NewTimeStringFromString(string(t))
	return err
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает короткую форму "HH:MM" для отображения
func (t TimeString) String() string {
	s := string(t)
	if len(s) >= 5 {
		return s[:5]
	}
	return s
}

// AddMinutes возвращает время, сдвинутое на m минут вперед
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	total := t.ToMinutes() + m
	// Выход за границы суток нормализуем по модулю 24 часов
	total = ((total % 1440) + 1440) % 1440
	return FromMinutes(total), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.ToMinutes() < other.ToMinutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.ToMinutes() > other.ToMinutes()
}

// IntervalsOverlap проверяет пересечение двух полуоткрытых интервалов [startA, endA) и [startB, endB).
// Интервалы заданы в минутах от полуночи. Соприкосновение границ пересечением не считается.
func IntervalsOverlap(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}
