package get_available_seats

import (
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// Шаг почасовой сетки доступности
const slotStepMinutes = 60

// hourSlot один интервал почасовой сетки
type hourSlot struct {
	start types.TimeString
	end   types.TimeString
}

// generateHourSlots генерирует почасовую сетку от открытия до закрытия пространства
// Неполный последний час в сетку не попадает
func generateHourSlots(workingHours spaceservice.DaySchedule) ([]hourSlot, error) {
	if !workingHours.IsOpen || workingHours.OpenTime == nil || workingHours.CloseTime == nil {
		return []hourSlot{}, nil
	}

	openTime, err := types.NewTimeStringFromString(*workingHours.OpenTime)
	if err != nil {
		return nil, err
	}

	closeTime, err := types.NewTimeStringFromString(*workingHours.CloseTime)
	if err != nil {
		return nil, err
	}

	slots := make([]hourSlot, 0)
	current := openTime

	for current.IsBefore(closeTime) {
		slotEnd, err := current.AddMinutes(slotStepMinutes)
		if err != nil {
			return nil, err
		}
		if slotEnd.IsAfter(closeTime) {
			break
		}

		slots = append(slots, hourSlot{start: current, end: slotEnd})
		current = slotEnd
	}

	return slots, nil
}

// calculateSlotAvailability вычисляет количество свободных мест для каждого интервала
// Места считаются суммой, а не количеством бронирований: одно бронирование
// на 5 мест занимает 5 мест в каждом пересекаемом интервале
func calculateSlotAvailability(slots []hourSlot, bookings []*domain.Booking, seatCapacity int) []Slot {
	result := make([]Slot, len(slots))

	for i, slot := range slots {
		taken := seatsTakenInInterval(slot.start, slot.end, bookings)

		available := seatCapacity - taken
		if available < 0 {
			available = 0
		}

		result[i] = Slot{
			StartTime:      slot.start,
			EndTime:        slot.end,
			AvailableSeats: available,
			TotalSeats:     seatCapacity,
		}
	}

	return result
}

// seatsTakenInInterval возвращает суммарное количество мест, занятых активными
// бронированиями, пересекающимися с интервалом
// Daily бронирования занимают места во всех интервалах дня
//
// Пересечение проверяется строгими неравенствами: бронирование 10:00-11:00
// и интервал 11:00-12:00 граничат, но не пересекаются
func seatsTakenInInterval(start, end types.TimeString, bookings []*domain.Booking) int {
	taken := 0

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		if booking.BookingType == domain.TypeDaily {
			taken += booking.Seats
			continue
		}

		if booking.StartTime.IsBefore(end) && booking.EndTime.IsAfter(start) {
			taken += booking.Seats
		}
	}

	return taken
}

// minAvailableSeats возвращает минимум свободных мест по всем интервалам
// Столько мест можно забронировать на весь день
func minAvailableSeats(slots []Slot, seatCapacity int) int {
	if len(slots) == 0 {
		return 0
	}

	minSeats := seatCapacity
	for _, slot := range slots {
		if slot.AvailableSeats < minSeats {
			minSeats = slot.AvailableSeats
		}
	}

	return minSeats
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

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
