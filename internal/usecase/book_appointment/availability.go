package book_appointment

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// windowFits проверяет, что запрошенное окно целиком лежит внутри
// свободного (не модельного) слота и не пересекается с занятыми записями
func windowFits(
	slots []*domain.AvailabilitySlot,
	booked []*domain.BookedInterval,
	startMin, durationMinutes int,
) bool {
	endMin := startMin + durationMinutes

	insideSlot := false
	for _, slot := range slots {
		if slot.ForModels || !slot.IsAvailable {
			continue
		}
		if isSlotTakenByModelBooking(slot.ID, booked) {
			continue
		}
		if startMin >= slot.StartTime.ToMinutes() && endMin <= slot.EndTime.ToMinutes() {
			insideSlot = true
			break
		}
	}
	if !insideSlot {
		return false
	}

	return !overlapsAnyBooked(startMin, endMin, booked)
}

// hasAnyFreeWindow проверяет, осталось ли хотя бы одно свободное окно
// на дату при длительности сеанса по умолчанию
func hasAnyFreeWindow(slots []*domain.AvailabilitySlot, booked []*domain.BookedInterval) bool {
	for _, slot := range slots {
		if slot.ForModels || !slot.IsAvailable {
			continue
		}
		if isSlotTakenByModelBooking(slot.ID, booked) {
			continue
		}

		slotStartMin := slot.StartTime.ToMinutes()
		slotEndMin := slot.EndTime.ToMinutes()

		for tick := slotStartMin; tick+domain.DefaultServiceDurationMinutes <= slotEndMin; tick += domain.SlotStepMinutes {
			if !overlapsAnyBooked(tick, tick+domain.DefaultServiceDurationMinutes, booked) {
				return true
			}
		}
	}
	return false
}

// isSlotTakenByModelBooking проверяет, занят ли слот модельной записью
func isSlotTakenByModelBooking(slotID string, booked []*domain.BookedInterval) bool {
	for _, b := range booked {
		if b.SlotID != nil && *b.SlotID == slotID {
			return true
		}
	}
	return false
}

// overlapsAnyBooked проверяет строгое пересечение окна с занятыми записями.
// Модельные записи участвуют наравне с обычными: услуга модельной записи
// может быть длиннее слота и занимать время за его границами.
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
