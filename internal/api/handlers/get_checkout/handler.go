package get_checkout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	"github.com/m04kA/CWS-BookingService/internal/service/checkouts"
)

const (
	msgInvalidCheckoutID = "некорректный ID чекаута"
	msgNotFound          = "чекаут не найден"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service CheckoutService
	logger  Logger
}

func NewHandler(service CheckoutService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/checkouts/{checkoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем checkoutId из URL
	vars := mux.Vars(r)
	checkoutIDStr := vars["checkoutId"]

	checkoutID, err := strconv.ParseInt(checkoutIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /checkouts/{id} - Invalid checkout ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCheckoutID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /checkouts/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем чекаут (сервис сам проверит права доступа)
	checkout, err := h.service.GetByID(r.Context(), checkoutID, userID)
	if err != nil {
		switch {
		case errors.Is(err, checkouts.ErrCheckoutNotFound):
			h.logger.Warn("GET /checkouts/{id} - Checkout not found: checkout_id=%d", checkoutID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, checkouts.ErrAccessDenied):
			h.logger.Warn("GET /checkouts/{id} - Access denied: checkout_id=%d, user_id=%d", checkoutID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /checkouts/{id} - Failed to get checkout: checkout_id=%d, error=%v", checkoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /checkouts/{id} - Checkout retrieved successfully: checkout_id=%d, user_id=%d",
		checkoutID, userID)
	handlers.RespondJSON(w, http.StatusOK, checkout)
}
