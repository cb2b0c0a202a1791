package paymentgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")

	// ErrGatewayUnavailable возвращается при недоступности платёжного шлюза
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrOrderRejected возвращается, когда шлюз отклонил создание заказа
	ErrOrderRejected = errors.New("payment gateway rejected order")

	// ErrInvalidSignature возвращается при несовпадении подписи платежа
	// Оплата не считается подтверждённой ни при каких обстоятельствах
	ErrInvalidSignature = errors.New("payment signature mismatch")
)
