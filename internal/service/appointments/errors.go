package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrClientNotFound возвращается, когда клиент не найден
	ErrClientNotFound = errors.New("client not found")

	// ErrNoMaster возвращается, когда в системе не заведен мастер
	ErrNoMaster = errors.New("no master configured")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на операцию
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
