package get_available_seats

import (
	"github.com/m04kA/CWS-BookingService/internal/domain"
	getAvailableSeats "github.com/m04kA/CWS-BookingService/internal/usecase/get_available_seats"
)

// SlotResponse доступность мест в одном часовом интервале
type SlotResponse struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSeats int    `json:"availableSeats"`
	TotalSeats     int    `json:"totalSeats"`
}

// AvailableSeatsResponse HTTP response model
type AvailableSeatsResponse struct {
	Date                string         `json:"date"`
	SpaceID             int64          `json:"spaceId"`
	SeatCapacity        int            `json:"seatCapacity"`
	DailySeatsAvailable int            `json:"dailySeatsAvailable"`
	Slots               []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSeats.Response) *AvailableSeatsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime:      slot.StartTime.String(),
			EndTime:        slot.EndTime.String(),
			AvailableSeats: slot.AvailableSeats,
			TotalSeats:     slot.TotalSeats,
		}
	}

	return &AvailableSeatsResponse{
		Date:                resp.Date.Format(domain.DateFormat),
		SpaceID:             resp.SpaceID,
		SeatCapacity:        resp.SeatCapacity,
		DailySeatsAvailable: resp.DailySeatsAvailable,
		Slots:               slots,
	}
}
