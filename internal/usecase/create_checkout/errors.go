package create_checkout

import "errors"

var (
	// ErrSpaceNotFound возвращается, когда пространство не найдено
	ErrSpaceNotFound = errors.New("create_checkout: space not found")

	// ErrSpaceNotApproved возвращается, когда пространство ещё не прошло модерацию
	ErrSpaceNotApproved = errors.New("create_checkout: space is not approved")

	// ErrRateUnavailable возвращается, когда тариф недоступен: каталог
	// пространств не отвечает или у пространства нет тарифа для
	// запрошенного типа бронирования. Тариф никогда не считается нулевым
	ErrRateUnavailable = errors.New("create_checkout: rate is not available")

	// ErrSpaceClosed возвращается, когда пространство закрыто в выбранную дату
	// или интервал выходит за рабочие часы
	ErrSpaceClosed = errors.New("create_checkout: space is closed at the selected time")

	// ErrTaxConfigUnavailable возвращается, когда налоговую конфигурацию
	// не удалось получить - чекаут с неполными налогами не создаётся
	ErrTaxConfigUnavailable = errors.New("create_checkout: tax configuration unavailable")

	// ErrSeatsNotAvailable возвращается, когда на одну из дат недостаточно свободных мест
	ErrSeatsNotAvailable = errors.New("create_checkout: not enough seats available")

	// ErrInvalidDate возвращается при дате бронирования в прошлом
	ErrInvalidDate = errors.New("create_checkout: invalid booking date")

	// ErrPaymentOrderFailed возвращается, когда платёжный шлюз не принял заказ
	ErrPaymentOrderFailed = errors.New("create_checkout: failed to create payment order")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_checkout: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_checkout: internal error")
)
