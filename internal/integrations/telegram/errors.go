package telegram

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе Bot API
	ErrInvalidResponse = errors.New("telegram client: invalid response")

	// ErrNoChatID возвращается при попытке отправить сообщение без chat_id
	ErrNoChatID = errors.New("telegram client: no chat id")
)
