package book_appointment

import "errors"

var (
	// ErrNoMaster возвращается, когда в системе не настроен мастер
	ErrNoMaster = errors.New("no master configured")

	// ErrServiceNotFound возвращается, когда услуга не найдена или недоступна для записи
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotNotFound возвращается, когда модельный слот не найден или недоступен
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotAlreadyBooked возвращается, когда модельный слот уже занят другой записью
	ErrSlotAlreadyBooked = errors.New("slot already booked")

	// ErrTimeNotAvailable возвращается, когда запрошенное время не входит
	// в свободные окна мастера
	ErrTimeNotAvailable = errors.New("time not available")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
