package checkout

import "errors"

var (
	// ErrCheckoutNotFound возвращается, когда чекаут не найден
	ErrCheckoutNotFound = errors.New("checkout.repository: checkout not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("checkout.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("checkout.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("checkout.repository: failed to scan row")

	// ErrMarshalBreakdown возвращается при ошибке сериализации налоговой разбивки
	ErrMarshalBreakdown = errors.New("checkout.repository: failed to marshal tax breakdown")
)
