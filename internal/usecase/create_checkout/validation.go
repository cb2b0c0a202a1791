package create_checkout

import (
	"fmt"
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.SpaceID <= 0 {
		return fmt.Errorf("%w: spaceID must be positive", ErrInvalidInput)
	}

	if len(req.Selections) == 0 {
		return fmt.Errorf("%w: at least one date selection is required", ErrInvalidInput)
	}

	if len(req.Selections) > domain.MaxSelectionsPerCheckout {
		return fmt.Errorf("%w: at most %d date selections per checkout",
			ErrInvalidInput, domain.MaxSelectionsPerCheckout)
	}

	for i, sel := range req.Selections {
		if err := validateSelection(sel); err != nil {
			return fmt.Errorf("%w (selection #%d)", err, i+1)
		}
	}

	return nil
}

// validateSelection валидирует одну позицию чекаута
func validateSelection(sel Selection) error {
	if sel.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !sel.BookingType.IsValid() {
		return fmt.Errorf("%w: unknown booking type %q", ErrInvalidInput, sel.BookingType)
	}

	if sel.Seats < domain.MinSeatsPerSelection || sel.Seats > domain.MaxSeatsPerSelection {
		return fmt.Errorf("%w: seats must be between %d and %d",
			ErrInvalidInput, domain.MinSeatsPerSelection, domain.MaxSeatsPerSelection)
	}

	switch sel.BookingType {
	case domain.TypeHourly:
		if sel.StartTime.IsZero() || sel.EndTime.IsZero() {
			return fmt.Errorf("%w: startTime and endTime are required for hourly bookings", ErrInvalidInput)
		}
		if err := sel.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
		}
		if err := sel.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
		if !sel.EndTime.IsAfter(sel.StartTime) {
			return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}
	case domain.TypeDaily:
		if !sel.StartTime.IsZero() || !sel.EndTime.IsZero() {
			return fmt.Errorf("%w: time interval is not allowed for daily bookings", ErrInvalidInput)
		}
	}

	return nil
}

// validateDates проверяет, что ни одна из дат не находится в прошлом
func validateDates(selections []Selection, now time.Time) error {
	for _, sel := range selections {
		if isDateInPast(sel.Date, now) {
			return fmt.Errorf("%w: %s", ErrInvalidDate, sel.Date.Format(domain.DateFormat))
		}
	}
	return nil
}

// validateRates проверяет, что у пространства есть тарифы
// для всех запрошенных типов бронирования
func validateRates(selections []Selection, space *spaceservice.Space) error {
	for _, sel := range selections {
		switch sel.BookingType {
		case domain.TypeHourly:
			if space.PricePerHour <= 0 {
				return fmt.Errorf("%w: hourly rate is not set for space id=%d", ErrRateUnavailable, space.ID)
			}
		case domain.TypeDaily:
			if space.PricePerDay <= 0 {
				return fmt.Errorf("%w: daily rate is not set for space id=%d", ErrRateUnavailable, space.ID)
			}
		}
	}
	return nil
}

// validateWorkingHours проверяет, что каждая позиция попадает в рабочие часы пространства
// Для daily достаточно, чтобы пространство было открыто в этот день
func validateWorkingHours(selections []Selection, space *spaceservice.Space) error {
	for _, sel := range selections {
		day := getWorkingHoursForDay(space, sel.Date)
		if !day.IsOpen {
			return fmt.Errorf("%w: space is closed on %s", ErrSpaceClosed, sel.Date.Format(domain.DateFormat))
		}

		if sel.BookingType != domain.TypeHourly {
			continue
		}

		// Если расписание на день не задано, интервал не ограничиваем
		if day.OpenTime == nil || day.CloseTime == nil {
			continue
		}

		openTime := types.TimeString(*day.OpenTime)
		closeTime := types.TimeString(*day.CloseTime)

		if sel.StartTime.IsBefore(openTime) || sel.EndTime.IsAfter(closeTime) {
			return fmt.Errorf("%w: interval %s-%s is outside working hours %s-%s",
				ErrSpaceClosed, sel.StartTime, sel.EndTime, openTime, closeTime)
		}
	}

	return nil
}

// getWorkingHoursForDay возвращает расписание работы пространства на указанный день недели
func getWorkingHoursForDay(space *spaceservice.Space, date time.Time) spaceservice.DaySchedule {
	switch date.Weekday() {
	case time.Monday:
		return space.WorkingHours.Monday
	case time.Tuesday:
		return space.WorkingHours.Tuesday
	case time.Wednesday:
		return space.WorkingHours.Wednesday
	case time.Thursday:
		return space.WorkingHours.Thursday
	case time.Friday:
		return space.WorkingHours.Friday
	case time.Saturday:
		return space.WorkingHours.Saturday
	case time.Sunday:
		return space.WorkingHours.Sunday
	default:
		return spaceservice.DaySchedule{IsOpen: false}
	}
}

// seatsTaken возвращает суммарное количество мест, занятых активными бронированиями,
// пересекающимися с позицией по времени
// Daily бронирование занимает места на весь день
func seatsTaken(sel Selection, bookings []*domain.Booking) int {
	taken := 0

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}
		if !isSameDay(booking.BookingDate, sel.Date) {
			continue
		}

		if overlapsInterval(sel, booking.BookingType, booking.StartTime, booking.EndTime) {
			taken += booking.Seats
		}
	}

	return taken
}

// selectionsOverlap проверяет пересечение двух позиций одного запроса
func selectionsOverlap(a, b Selection) bool {
	if !isSameDay(a.Date, b.Date) {
		return false
	}
	return overlapsInterval(a, b.BookingType, b.StartTime, b.EndTime)
}

// overlapsInterval проверяет пересечение позиции с интервалом другого бронирования
// Границы интервалов не считаются пересечением (10:00-12:00 и 12:00-14:00 совместимы)
func overlapsInterval(sel Selection, otherType domain.BookingType, otherStart, otherEnd types.TimeString) bool {
	// Daily с любой стороны занимает весь день
	if sel.BookingType == domain.TypeDaily || otherType == domain.TypeDaily {
		return true
	}

	return otherStart.IsBefore(sel.EndTime) && otherEnd.IsAfter(sel.StartTime)
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
