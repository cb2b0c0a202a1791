package pricing

import (
	"errors"
	"math"

	"github.com/m04kA/CWS-BookingService/internal/domain"
)

// Пакет pricing - единственная точка расчёта стоимости чекаута.
// И создание заказа, и проверка оплаты используют Calculate, поэтому
// две поверхности никогда не разойдутся в суммах для одного входа.

var (
	// ErrNoSelections возвращается при попытке рассчитать пустой чекаут
	ErrNoSelections = errors.New("pricing: no date selections")

	// ErrInvalidSelection возвращается при некорректной позиции чекаута
	ErrInvalidSelection = errors.New("pricing: invalid selection")
)

// BillableHours возвращает оплачиваемую длительность позиции в часах
// Для daily всегда 1 (тариф за день уже учитывает полный день)
// Для hourly - длительность интервала с нижней границей minBillableHours:
// бронирование никогда не тарифицируется ниже минимального порога
func BillableHours(sel domain.DateSelection, minBillableHours float64) (float64, error) {
	if sel.BookingType == domain.TypeDaily {
		return 1, nil
	}

	rawHours, err := sel.StartTime.HoursUntil(sel.EndTime)
	if err != nil {
		return 0, err
	}

	// Некорректный интервал (end <= start) отбрасывается валидацией выше;
	// если всё же дошёл сюда - считается нулевой длительностью и упирается в пол
	if rawHours < 0 {
		rawHours = 0
	}

	return math.Max(minBillableHours, rawHours), nil
}

// LineTotal возвращает стоимость одной позиции чекаута
func LineTotal(sel domain.DateSelection, rate domain.SpaceRate, minBillableHours float64) (float64, error) {
	if sel.Seats <= 0 {
		return 0, ErrInvalidSelection
	}
	if !sel.BookingType.IsValid() {
		return 0, ErrInvalidSelection
	}

	hours, err := BillableHours(sel, minBillableHours)
	if err != nil {
		return 0, err
	}

	if sel.BookingType == domain.TypeDaily {
		return rate.PricePerDay * float64(sel.Seats), nil
	}
	return rate.PricePerHour * float64(sel.Seats) * hours, nil
}

// Subtotal возвращает сумму стоимостей всех позиций до налогов
// Для пустого списка возвращает 0 - блокировка пустого чекаута
// является обязанностью вызывающей стороны (см. Calculate)
func Subtotal(selections []domain.DateSelection, rate domain.SpaceRate, minBillableHours float64) (float64, error) {
	var subtotal float64

	for _, sel := range selections {
		lineTotal, err := LineTotal(sel, rate, minBillableHours)
		if err != nil {
			return 0, err
		}
		subtotal += lineTotal
	}

	return subtotal, nil
}

// ComposeTaxes применяет налоговые правила к subtotal
// Участвуют только включённые правила с областью "booking", в порядке конфигурации.
// Каждая сумма округляется до целой денежной единицы независимо от остальных
// (а не один раз в конце) - это требование битовой совместимости с уже
// сохранёнными итогами. Повторяющиеся имена правил не схлопываются.
func ComposeTaxes(subtotal float64, rules []*domain.TaxRule) ([]domain.TaxLine, float64) {
	breakdown := make([]domain.TaxLine, 0, len(rules))
	var totalTax float64

	for _, rule := range rules {
		if !rule.AppliesToBooking() {
			continue
		}

		amount := math.Round(subtotal * rule.Percentage / 100)
		breakdown = append(breakdown, domain.TaxLine{
			Name:       rule.Name,
			Percentage: rule.Percentage,
			Amount:     amount,
		})
		totalTax += amount
	}

	return breakdown, totalTax
}

// Calculate собирает полный расчёт чекаута: subtotal, налоговую разбивку и итог
// Пустой список позиций отклоняется - подтверждённый чекаут с нулевой
// суммой никогда не должен возникнуть
func Calculate(
	selections []domain.DateSelection,
	rate domain.SpaceRate,
	rules []*domain.TaxRule,
	minBillableHours float64,
) (*domain.CheckoutTotal, error) {
	if len(selections) == 0 {
		return nil, ErrNoSelections
	}

	subtotal, err := Subtotal(selections, rate, minBillableHours)
	if err != nil {
		return nil, err
	}

	breakdown, totalTax := ComposeTaxes(subtotal, rules)

	return &domain.CheckoutTotal{
		Subtotal:     subtotal,
		TaxBreakdown: breakdown,
		TotalTax:     totalTax,
		GrandTotal:   subtotal + totalTax,
	}, nil
}
