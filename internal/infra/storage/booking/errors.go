package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrCodeNotFound возвращается, когда код погашения не найден
	ErrCodeNotFound = errors.New("booking.repository: redemption code not found")

	// ErrDuplicateCode возвращается при попытке сохранить неуникальный код погашения
	ErrDuplicateCode = errors.New("booking.repository: duplicate redemption code")

	// ErrStatusConflict возвращается, когда переход статуса не прошёл:
	// бронирование уже в терминальном статусе (redeemed, cancelled, expired)
	ErrStatusConflict = errors.New("booking.repository: booking status conflict")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
