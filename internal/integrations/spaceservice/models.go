package spaceservice

// Space модель коворкинг-пространства из SpaceService
type Space struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	City         string       `json:"city"`
	SeatCapacity int          `json:"seat_capacity"`
	PricePerHour float64      `json:"price_per_hour"`
	PricePerDay  float64      `json:"price_per_day"`
	IsApproved   bool         `json:"is_approved"`
	ManagerIDs   []int64      `json:"manager_ids"`
	WorkingHours WeekSchedule `json:"working_hours"`
}

// WeekSchedule расписание работы пространства по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание работы на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "21:00"
}

// ErrorResponse модель ошибки от SpaceService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
