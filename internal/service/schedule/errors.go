package schedule

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrServiceNotFound возвращается, когда услуга модельного слота не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInterval возвращается, когда время начала не раньше времени окончания
	ErrInvalidInterval = errors.New("invalid time interval")

	// ErrSlotOverlap возвращается, когда слот пересекается с другим слотом той же даты
	ErrSlotOverlap = errors.New("slot overlaps with an existing slot")

	// ErrModelServiceRequired возвращается, когда модельный слот создается без услуги
	ErrModelServiceRequired = errors.New("model slot requires a for-models service")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
