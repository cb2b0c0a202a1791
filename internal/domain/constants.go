package domain

// Default configuration values
const (
	// DefaultMinBillableHours минимальная оплачиваемая длительность почасового
	// бронирования: меньшие интервалы округляются вверх до этого значения
	DefaultMinBillableHours = 1.0
)

// Business validation constants
const (
	MinSeatsPerSelection        = 1
	MaxSeatsPerSelection        = 100
	MaxSelectionsPerCheckout    = 31
	MaxTaxPercentage            = 100.0
	MaxTaxRuleNameLength        = 100
	MaxCancellationReasonLength = 500
)

// TaxScopeBooking область применения налоговых правил для бронирований
const TaxScopeBooking = "booking"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов бронирований, не занимающих места
// Используется для фильтрации при подсчёте доступных мест
var InactiveStatuses = []BookingStatus{
	StatusCancelledByUser,
	StatusCancelledBySpace,
	StatusExpired,
}

// ActiveStatuses список статусов бронирований, занимающих места
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusRedeemed,
}
