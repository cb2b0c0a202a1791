package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func hourly(day, start, end string, seats int) domain.DateSelection {
	return domain.DateSelection{
		Date:        date(day),
		BookingType: domain.TypeHourly,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Seats:       seats,
	}
}

func daily(day string, seats int) domain.DateSelection {
	return domain.DateSelection{
		Date:        date(day),
		BookingType: domain.TypeDaily,
		Seats:       seats,
	}
}

func TestSubtotal_DailySingleSeat(t *testing.T) {
	rate := domain.SpaceRate{PricePerDay: 1200}

	subtotal, err := Subtotal([]domain.DateSelection{daily("2025-11-03", 1)}, rate, domain.DefaultMinBillableHours)

	require.NoError(t, err)
	assert.Equal(t, 1200.0, subtotal)
}

func TestSubtotal_HourlyEightHoursTwoSeats(t *testing.T) {
	rate := domain.SpaceRate{PricePerHour: 150}

	subtotal, err := Subtotal(
		[]domain.DateSelection{hourly("2025-11-03", "09:00", "17:00", 2)},
		rate,
		domain.DefaultMinBillableHours,
	)

	require.NoError(t, err)
	assert.Equal(t, 2400.0, subtotal) // 150 × 2 × 8
}

func TestSubtotal_MixedSelections(t *testing.T) {
	rate := domain.SpaceRate{PricePerHour: 120, PricePerDay: 950}

	selections := []domain.DateSelection{
		hourly("2025-11-03", "10:00", "14:00", 1),
		hourly("2025-11-04", "10:00", "14:00", 1),
		daily("2025-11-05", 1),
	}

	subtotal, err := Subtotal(selections, rate, domain.DefaultMinBillableHours)

	require.NoError(t, err)
	assert.Equal(t, 1910.0, subtotal) // 480 + 480 + 950
}

func TestSubtotal_EmptySelections(t *testing.T) {
	subtotal, err := Subtotal(nil, domain.SpaceRate{PricePerHour: 100}, domain.DefaultMinBillableHours)

	require.NoError(t, err)
	assert.Equal(t, 0.0, subtotal)
}

func TestSubtotal_MonotonicInSeatsAndHours(t *testing.T) {
	rate := domain.SpaceRate{PricePerHour: 150}

	base, err := Subtotal([]domain.DateSelection{hourly("2025-11-03", "09:00", "12:00", 1)}, rate, 1.0)
	require.NoError(t, err)

	moreSeats, err := Subtotal([]domain.DateSelection{hourly("2025-11-03", "09:00", "12:00", 2)}, rate, 1.0)
	require.NoError(t, err)

	moreHours, err := Subtotal([]domain.DateSelection{hourly("2025-11-03", "09:00", "15:00", 1)}, rate, 1.0)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, moreSeats, base)
	assert.GreaterOrEqual(t, moreHours, base)
}

func TestBillableHours_MinimumFloor(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		minFloor float64
		want     float64
	}{
		// Политика проекта: пол в 1 час
		{"30 minutes floors to 1h", "10:00", "10:30", 1.0, 1.0},
		{"exactly 1 hour", "10:00", "11:00", 1.0, 1.0},
		{"90 minutes preserved", "10:00", "11:30", 1.0, 1.5},
		{"zero span floors to 1h", "10:00", "10:00", 1.0, 1.0},
		// Альтернативный пол в полчаса остаётся корректным
		{"30 minutes with 0.5h floor", "10:00", "10:30", 0.5, 0.5},
		{"15 minutes floors to 0.5h", "10:00", "10:15", 0.5, 0.5},
		{"zero span floors to 0.5h", "10:00", "10:00", 0.5, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := BillableHours(hourly("2025-11-03", tt.start, tt.end, 1), tt.minFloor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, hours)
		})
	}
}

func TestBillableHours_DailyIsAlwaysOne(t *testing.T) {
	hours, err := BillableHours(daily("2025-11-03", 3), domain.DefaultMinBillableHours)

	require.NoError(t, err)
	assert.Equal(t, 1.0, hours)
}

func TestLineTotal_InvalidSeats(t *testing.T) {
	_, err := LineTotal(daily("2025-11-03", 0), domain.SpaceRate{PricePerDay: 500}, 1.0)
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = LineTotal(daily("2025-11-03", -2), domain.SpaceRate{PricePerDay: 500}, 1.0)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func enabledRule(name string, pct float64, position int) *domain.TaxRule {
	return &domain.TaxRule{
		Name:       name,
		Percentage: pct,
		IsEnabled:  true,
		AppliesTo:  domain.TaxScopeBooking,
		Position:   position,
	}
}

func TestComposeTaxes_SingleRule(t *testing.T) {
	breakdown, totalTax := ComposeTaxes(2400, []*domain.TaxRule{enabledRule("GST", 18, 1)})

	require.Len(t, breakdown, 1)
	assert.Equal(t, "GST", breakdown[0].Name)
	assert.Equal(t, 18.0, breakdown[0].Percentage)
	assert.Equal(t, 432.0, breakdown[0].Amount)
	assert.Equal(t, 432.0, totalTax)
}

func TestComposeTaxes_IndependentRoundingPerRule(t *testing.T) {
	// 1001 × 2.5% = 25.025 → 25; 1001 × 7.5% = 75.075 → 75
	// Округление по каждому правилу отдельно, а не суммы в конце
	rules := []*domain.TaxRule{
		enabledRule("CGST", 2.5, 1),
		enabledRule("SGST", 7.5, 2),
	}

	breakdown, totalTax := ComposeTaxes(1001, rules)

	require.Len(t, breakdown, 2)
	assert.Equal(t, 25.0, breakdown[0].Amount)
	assert.Equal(t, 75.0, breakdown[1].Amount)
	assert.Equal(t, 100.0, totalTax)
}

func TestComposeTaxes_SkipsDisabledAndForeignScope(t *testing.T) {
	rules := []*domain.TaxRule{
		enabledRule("GST", 18, 1),
		{Name: "Disabled", Percentage: 10, IsEnabled: false, AppliesTo: domain.TaxScopeBooking},
		{Name: "Subscription fee", Percentage: 5, IsEnabled: true, AppliesTo: "subscription"},
	}

	breakdown, totalTax := ComposeTaxes(1000, rules)

	require.Len(t, breakdown, 1)
	assert.Equal(t, "GST", breakdown[0].Name)
	assert.Equal(t, 180.0, totalTax)
}

func TestComposeTaxes_AllDisabledYieldsZero(t *testing.T) {
	rules := []*domain.TaxRule{
		{Name: "GST", Percentage: 18, IsEnabled: false, AppliesTo: domain.TaxScopeBooking},
	}

	breakdown, totalTax := ComposeTaxes(1000, rules)

	assert.Empty(t, breakdown)
	assert.Equal(t, 0.0, totalTax)
}

func TestComposeTaxes_PreservesConfigurationOrder(t *testing.T) {
	rules := []*domain.TaxRule{
		enabledRule("SGST", 9, 1),
		enabledRule("CGST", 9, 2),
		enabledRule("Cess", 1, 3),
	}

	breakdown, _ := ComposeTaxes(1000, rules)

	require.Len(t, breakdown, 3)
	assert.Equal(t, "SGST", breakdown[0].Name)
	assert.Equal(t, "CGST", breakdown[1].Name)
	assert.Equal(t, "Cess", breakdown[2].Name)
}

func TestComposeTaxes_DuplicateNamesBothApply(t *testing.T) {
	// Дубликаты в конфигурации не схлопываются - это известное поведение
	rules := []*domain.TaxRule{
		enabledRule("GST", 9, 1),
		enabledRule("GST", 9, 2),
	}

	breakdown, totalTax := ComposeTaxes(1000, rules)

	require.Len(t, breakdown, 2)
	assert.Equal(t, 180.0, totalTax)
}

func TestCalculate_FullCheckout(t *testing.T) {
	rate := domain.SpaceRate{PricePerHour: 150}
	rules := []*domain.TaxRule{enabledRule("GST", 18, 1)}

	total, err := Calculate(
		[]domain.DateSelection{hourly("2025-11-03", "09:00", "17:00", 2)},
		rate,
		rules,
		domain.DefaultMinBillableHours,
	)

	require.NoError(t, err)
	assert.Equal(t, 2400.0, total.Subtotal)
	assert.Equal(t, 432.0, total.TotalTax)
	assert.Equal(t, 2832.0, total.GrandTotal)
}

func TestCalculate_GrandTotalInvariant(t *testing.T) {
	rate := domain.SpaceRate{PricePerHour: 120, PricePerDay: 950}
	rules := []*domain.TaxRule{
		enabledRule("SGST", 9, 1),
		enabledRule("CGST", 9, 2),
	}

	selections := []domain.DateSelection{
		hourly("2025-11-03", "10:00", "14:00", 1),
		hourly("2025-11-04", "10:00", "14:00", 1),
		daily("2025-11-05", 1),
	}

	total, err := Calculate(selections, rate, rules, domain.DefaultMinBillableHours)
	require.NoError(t, err)

	var sum float64
	for _, line := range total.TaxBreakdown {
		sum += line.Amount
	}
	assert.Equal(t, sum, total.TotalTax)
	assert.Equal(t, total.Subtotal+total.TotalTax, total.GrandTotal)
}

func TestCalculate_Idempotent(t *testing.T) {
	rate := domain.SpaceRate{PricePerHour: 150}
	rules := []*domain.TaxRule{enabledRule("GST", 18, 1)}
	selections := []domain.DateSelection{hourly("2025-11-03", "09:00", "17:00", 2)}

	first, err := Calculate(selections, rate, rules, domain.DefaultMinBillableHours)
	require.NoError(t, err)

	second, err := Calculate(selections, rate, rules, domain.DefaultMinBillableHours)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_NoTaxRules(t *testing.T) {
	total, err := Calculate(
		[]domain.DateSelection{daily("2025-11-03", 1)},
		domain.SpaceRate{PricePerDay: 1200},
		nil,
		domain.DefaultMinBillableHours,
	)

	require.NoError(t, err)
	assert.Equal(t, 0.0, total.TotalTax)
	assert.Equal(t, total.Subtotal, total.GrandTotal)
}

func TestCalculate_EmptySelectionsRejected(t *testing.T) {
	_, err := Calculate(nil, domain.SpaceRate{PricePerDay: 1200}, nil, domain.DefaultMinBillableHours)

	assert.ErrorIs(t, err, ErrNoSelections)
}
