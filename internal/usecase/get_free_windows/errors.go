package get_free_windows

import "errors"

var (
	// ErrNoMaster возвращается, когда в системе не настроен мастер
	ErrNoMaster = errors.New("no master configured")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
