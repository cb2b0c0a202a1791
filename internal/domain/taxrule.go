package domain

import "time"

// TaxRule независимо настраиваемое налоговое правило (процентная надбавка)
// Включённые правила применяются аддитивно: каждое считается от subtotal,
// а не от нарастающего итога
type TaxRule struct {
	ID         int64
	Name       string
	Percentage float64
	IsEnabled  bool
	AppliesTo  string
	Position   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AppliesToBooking возвращает true, если правило участвует в расчёте бронирований
func (r *TaxRule) AppliesToBooking() bool {
	return r.IsEnabled && r.AppliesTo == TaxScopeBooking
}
