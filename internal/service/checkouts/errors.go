package checkouts

import "errors"

var (
	// ErrCheckoutNotFound возвращается, когда чекаут не найден
	ErrCheckoutNotFound = errors.New("checkout not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
