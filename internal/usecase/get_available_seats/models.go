package get_available_seats

import (
	"time"

	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// Request модель запроса на получение доступности мест
type Request struct {
	UserID  int64     // ID пользователя (для логирования, не влияет на результат)
	SpaceID int64     // ID пространства
	Date    time.Time // Дата (без времени)
}

// Response модель ответа с доступностью мест на дату
type Response struct {
	Date         time.Time // Дата, на которую запрашивалась доступность
	SpaceID      int64     // ID пространства
	SeatCapacity int       // Вместимость пространства

	// DailySeatsAvailable количество мест, свободных на весь день
	// (минимум свободных мест по всем часовым интервалам)
	DailySeatsAvailable int

	Slots []Slot // Почасовая сетка доступности
}

// Slot доступность мест в одном часовом интервале
type Slot struct {
	StartTime      types.TimeString // Начало интервала (например, "10:00")
	EndTime        types.TimeString // Конец интервала
	AvailableSeats int              // Количество свободных мест
	TotalSeats     int              // Вместимость пространства
}
