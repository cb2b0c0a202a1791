package redeem_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	"github.com/m04kA/CWS-BookingService/internal/service/bookings"
	"github.com/m04kA/CWS-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCodeNotFound       = "код не найден"
	msgForbidden          = "доступ запрещен"
	msgCannotRedeem       = "код уже использован или бронирование неактивно"
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

// Handle POST /api/v1/bookings/redeem
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RedeemBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/redeem - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/redeem - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq := &models.RedeemRequest{
		UserID: userID,
		Code:   req.Code,
	}

	// Погашаем код (сервис сам проверит права менеджера)
	booking, err := h.service.Redeem(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrCodeNotFound):
			h.logger.Warn("POST /bookings/redeem - Code not found: user_id=%d", userID)
			handlers.RespondNotFound(w, msgCodeNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/redeem - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotRedeem):
			h.logger.Warn("POST /bookings/redeem - Cannot redeem: user_id=%d", userID)
			handlers.RespondConflict(w, msgCannotRedeem)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/redeem - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/redeem - Failed to redeem code: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/redeem - Code redeemed successfully: booking_id=%d, user_id=%d",
		booking.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
