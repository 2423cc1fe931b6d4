package masters

import "errors"

var (
	// ErrMasterNotFound мастер не найден
	ErrMasterNotFound = errors.New("master not found")

	// ErrInvalidInput некорректные входные данные
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("service: internal error")
)
