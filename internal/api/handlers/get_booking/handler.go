package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	"github.com/m04kA/CWS-BookingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgBookingNotFound  = "бронирование не найдено"
	msgNoAccess         = "нет прав на просмотр этого бронирования"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
// Карточку бронирования видит его владелец и менеджеры пространства,
// разграничение прав выполняет сервисный слой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// userID кладёт middleware Auth
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/%d - Booking not found", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/%d - Access denied: user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgNoAccess)

		default:
			h.logger.Error("GET /bookings/%d - Failed to fetch booking: error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/%d - Booking fetched: user_id=%d, status=%s",
		bookingID, userID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
