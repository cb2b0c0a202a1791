package domain

import (
	"time"

	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// BookingType тип бронирования места
type BookingType string

const (
	TypeHourly BookingType = "hourly"
	TypeDaily  BookingType = "daily"
)

// IsValid возвращает true для известных типов бронирования
func (t BookingType) IsValid() bool {
	return t == TypeHourly || t == TypeDaily
}

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending          BookingStatus = "pending"
	StatusConfirmed        BookingStatus = "confirmed"
	StatusRedeemed         BookingStatus = "redeemed"
	StatusCancelledByUser  BookingStatus = "cancelled_by_user"
	StatusCancelledBySpace BookingStatus = "cancelled_by_space"
	StatusExpired          BookingStatus = "expired"
)

// Booking бронирование мест в пространстве на одну дату
// Создаётся по одному на каждую выбранную дату мульти-датного чекаута
type Booking struct {
	ID         int64
	CheckoutID int64
	UserID     int64
	SpaceID    int64

	BookingDate time.Time
	BookingType BookingType
	StartTime   types.TimeString // только для hourly
	EndTime     types.TimeString // только для hourly
	Seats       int

	// Зафиксированные на момент чекаута данные для истории
	BillableHours float64
	LineTotal     float64

	Status BookingStatus

	// RedemptionCode одноразовый код доступа, выдаётся после подтверждения оплаты
	RedemptionCode *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование занимает места
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByUser &&
		b.Status != StatusCancelledBySpace &&
		b.Status != StatusExpired
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeRedeemed возвращает true, если код бронирования можно погасить
// Погашение допустимо только для подтверждённых бронирований
func (b *Booking) CanBeRedeemed() bool {
	return b.Status == StatusConfirmed
}

// IsTerminal возвращает true для терминальных статусов (переходы из них запрещены)
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusRedeemed ||
		b.Status == StatusCancelledByUser ||
		b.Status == StatusCancelledBySpace ||
		b.Status == StatusExpired
}

// IsCancelled возвращает true, если бронирование было отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByUser || b.Status == StatusCancelledBySpace
}

// SpaceBookingsFilter фильтр для получения бронирований пространства
type SpaceBookingsFilter struct {
	SpaceID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и просроченные бронирования
}
