package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeString время в формате "HH:MM" (24-часовой формат)
// Используется для хранения времени начала/конца бронирования без привязки к дате
type TimeString string

var (
	// ErrInvalidFormat возвращается при некорректном формате строки времени
	ErrInvalidFormat = errors.New("invalid time string format, expected HH:MM")
)

// NewTimeString создает TimeString из time.Time (берёт только часы и минуты)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("15:04"))
}

// NewTimeStringFromString создает TimeString из строки с валидацией формата
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет, что строка соответствует формату HH:MM
func (t TimeString) Validate() error {
	if _, err := time.Parse("15:04", string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return string(t) == ""
}

// String возвращает строковое представление времени
func (t TimeString) String() string {
	return string(t)
}

// toMinutes конвертирует время в количество минут с начала суток
func (t TimeString) toMinutes() (int, error) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// fromMinutes создает TimeString из количества минут с начала суток
// Значения за пределами суток обрезаются по границе 23:59
func fromMinutes(minutes int) TimeString {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > 23*60+59 {
		minutes = 23*60 + 59
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// AddMinutes возвращает новое время, сдвинутое на указанное количество минут вперёд
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	current, err := t.toMinutes()
	if err != nil {
		return "", err
	}
	return fromMinutes(current + minutes), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	a, err := t.toMinutes()
	if err != nil {
		return false
	}
	b, err := other.toMinutes()
	if err != nil {
		return false
	}
	return a < b
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	a, err := t.toMinutes()
	if err != nil {
		return false
	}
	b, err := other.toMinutes()
	if err != nil {
		return false
	}
	return a > b
}

// MinutesUntil возвращает количество минут от t до other
// Отрицательное значение означает, что other раньше t
func (t TimeString) MinutesUntil(other TimeString) (int, error) {
	a, err := t.toMinutes()
	if err != nil {
		return 0, err
	}
	b, err := other.toMinutes()
	if err != nil {
		return 0, err
	}
	return b - a, nil
}

// HoursUntil возвращает количество часов от t до other как вещественное число
// Используется для расчёта стоимости почасовых бронирований
func (t TimeString) HoursUntil(other TimeString) (float64, error) {
	minutes, err := t.MinutesUntil(other)
	if err != nil {
		return 0, err
	}
	return float64(minutes) / 60.0, nil
}

// Value реализует driver.Valuer для записи в БД
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return string(t), nil
}

// Scan реализует sql.Scanner для чтения из БД
// Поддерживает string, []byte и time.Time (колонки типа TIME)
func (t *TimeString) Scan(value interface{}) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		// Postgres TIME приходит как "10:00:00" - обрезаем секунды
		if len(v) > 5 {
			v = v[:5]
		}
		*t = TimeString(v)
	case []byte:
		s := string(v)
		if len(s) > 5 {
			s = s[:5]
		}
		*t = TimeString(s)
	case time.Time:
		*t = NewTimeString(v)
	default:
		return fmt.Errorf("types.TimeString: unsupported scan type %T", value)
	}

	return t.Validate()
}
