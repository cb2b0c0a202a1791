package get_space_bookings

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
	msgInvalidSpaceID = "некорректный ID пространства"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidParams  = "некорректные параметры запроса"
	msgSpaceNotFound  = "пространство не найдено"
	msgForbidden      = "доступ запрещен"
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

// Handle GET /api/v1/spaces/{spaceId}/bookings
// Query params: startDate, endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем spaceId из URL
	vars := mux.Vars(r)
	spaceIDStr := vars["spaceId"]

	spaceID, err := strconv.ParseInt(spaceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/bookings - Invalid space ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /spaces/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем опциональные query параметры
	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(spaceID, userID,
		query.Get("startDate"), query.Get("endDate"), query.Get("status"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Получаем бронирования пространства (сервис сам проверит права менеджера)
	result, err := h.service.GetSpaceBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /spaces/{id}/bookings - Access denied: space_id=%d, user_id=%d",
				spaceID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrSpaceNotFound):
			h.logger.Warn("GET /spaces/{id}/bookings - Space not found: space_id=%d", spaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /spaces/{id}/bookings - Invalid parameters: space_id=%d, error=%v", spaceID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /spaces/{id}/bookings - Failed to get bookings: space_id=%d, error=%v",
				spaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spaces/{id}/bookings - Bookings retrieved successfully: space_id=%d, count=%d",
		spaceID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
