package verify_payment

import "errors"

var (
	// ErrInvalidSignature возвращается при неверной подписи платежа
	// Оплата без валидной подписи не подтверждается никогда
	ErrInvalidSignature = errors.New("verify_payment: invalid payment signature")

	// ErrCheckoutNotFound возвращается, когда чекаут по заказу не найден
	ErrCheckoutNotFound = errors.New("verify_payment: checkout not found")

	// ErrAccessDenied возвращается при попытке подтвердить чужой чекаут
	ErrAccessDenied = errors.New("verify_payment: access denied")

	// ErrCheckoutNotPayable возвращается, когда чекаут отменён или просрочен
	ErrCheckoutNotPayable = errors.New("verify_payment: checkout is not payable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("verify_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("verify_payment: internal error")
)
