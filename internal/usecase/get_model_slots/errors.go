package get_model_slots

import "errors"

var (
	// ErrNoMaster возвращается, когда в системе не настроен мастер
	ErrNoMaster = errors.New("no master configured")

	// ErrInvalidRange возвращается при перевернутом диапазоне дат
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
