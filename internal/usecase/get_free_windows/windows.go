package get_free_windows

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// computeFreeWindows разворачивает слоты доступности в конкретные окна для записи
//
// Правила разворачивания:
// - модельные и недоступные слоты пропускаются целиком;
// - слот, занятый модельной записью (запись ссылается на слот), пропускается целиком;
//   время услуги такой записи дополнительно вычитается из соседних слотов,
//   если услуга длиннее своего слота;
// - внутри слота тики идут с шагом 30 минут от его начала;
// - окно попадает в результат, если сеанс целиком помещается до конца слота
//   и не пересекается ни с одной занятой записью;
// - для сегодняшней даты окна, начинающиеся в прошлом, отбрасываются.
//
// Пересечение интервалов строгое: граничащие интервалы не конфликтуют.
// Слот 10:00-14:00 с записью 11:00-12:00 при сеансе 60 минут дает окна
// 10:00, 12:00, 12:30, 13:00.
func computeFreeWindows(
	slots []*domain.AvailabilitySlot,
	booked []*domain.BookedInterval,
	durationMinutes int,
	requestDate time.Time,
	now time.Time,
) []Window {
	windows := make([]Window, 0)

	minStartMin := -1
	if isSameDay(requestDate, now) {
		minStartMin = now.Hour()*60 + now.Minute()
	}

	for _, slot := range slots {
		if slot.ForModels || !slot.IsAvailable {
			continue
		}
		if isSlotTakenByModelBooking(slot.ID, booked) {
			continue
		}

		slotStartMin := slot.StartTime.ToMinutes()
		slotEndMin := slot.EndTime.ToMinutes()

		for tick := slotStartMin; tick+durationMinutes <= slotEndMin; tick += domain.SlotStepMinutes {
			if tick < minStartMin {
				continue
			}
			if overlapsAnyBooked(tick, tick+durationMinutes, booked) {
				continue
			}

			windows = append(windows, Window{
				SlotID:          slot.ID,
				StartTime:       types.FromMinutes(tick),
				EndTime:         types.FromMinutes(tick + durationMinutes),
				DurationMinutes: durationMinutes,
				PriceModifier:   slot.PriceModifier,
			})
		}
	}

	return windows
}

// isSlotTakenByModelBooking проверяет, занят ли слот модельной записью.
// Такая запись занимает слот целиком независимо от длительности услуги.
func isSlotTakenByModelBooking(slotID string, booked []*domain.BookedInterval) bool {
	for _, b := range booked {
		if b.SlotID != nil && *b.SlotID == slotID {
			return true
		}
	}
	return false
}

// overlapsAnyBooked проверяет пересечение окна с занятыми записями.
// Модельные записи проверяются по длительности услуги наравне с обычными:
// услуга может быть длиннее своего слота и выходить за его границы.
func overlapsAnyBooked(startMin, endMin int, booked []*domain.BookedInterval) bool {
	for _, b := range booked {
		bookedStart := b.StartTime.ToMinutes()
		bookedEnd := bookedStart + b.DurationMinutes()

		if types.IntervalsOverlap(startMin, endMin, bookedStart, bookedEnd) {
			return true
		}
	}
	return false
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
