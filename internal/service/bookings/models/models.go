package models

import (
	"errors"
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// RedeemRequest запрос на погашение кода бронирования
type RedeemRequest struct {
	UserID int64  `json:"userId"`
	Code   string `json:"code"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetSpaceBookingsRequest запрос на получение бронирований пространства
type GetSpaceBookingsRequest struct {
	UserID          int64      `json:"userId"`
	SpaceID         int64      `json:"spaceId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые и просроченные
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetSpaceBookingsRequest) ToDomainFilter() (domain.SpaceBookingsFilter, error) {
	filter := domain.SpaceBookingsFilter{
		SpaceID:         r.SpaceID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID          int64  `json:"id"`
	CheckoutID  int64  `json:"checkoutId"`
	UserID      int64  `json:"userId"`
	SpaceID     int64  `json:"spaceId"`
	BookingDate string `json:"bookingDate"` // "2026-03-15"
	BookingType string `json:"bookingType"`
	StartTime   string `json:"startTime,omitempty"` // "10:00", только для hourly
	EndTime     string `json:"endTime,omitempty"`   // только для hourly
	Seats       int    `json:"seats"`
	Status      string `json:"status"`

	// Зафиксированные на момент чекаута суммы
	BillableHours float64 `json:"billableHours"`
	LineTotal     float64 `json:"lineTotal"`

	RedemptionCode *string `json:"redemptionCode,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		CheckoutID:         b.CheckoutID,
		UserID:             b.UserID,
		SpaceID:            b.SpaceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		BookingType:        string(b.BookingType),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		Seats:              b.Seats,
		Status:             string(b.Status),
		BillableHours:      b.BillableHours,
		LineTotal:          b.LineTotal,
		RedemptionCode:     b.RedemptionCode,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	// Валидируем статус
	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusRedeemed,
		domain.StatusCancelledByUser,
		domain.StatusCancelledBySpace,
		domain.StatusExpired,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
