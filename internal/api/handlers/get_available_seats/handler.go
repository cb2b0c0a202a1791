package get_available_seats

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/domain"
	getAvailableSeats "github.com/m04kA/CWS-BookingService/internal/usecase/get_available_seats"
)

const (
	msgInvalidSpaceID   = "некорректный ID пространства"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateInPast       = "дата не может быть в прошлом"
	msgSpaceNotFound    = "пространство не найдено"
	msgSpaceNotApproved = "пространство не прошло модерацию"
)

type Handler struct {
	useCase GetAvailableSeatsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSeatsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/spaces/{spaceId}/available-seats?date=YYYY-MM-DD
// Публичный endpoint - доступен без аутентификации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем spaceId из URL
	vars := mux.Vars(r)
	spaceIDStr := vars["spaceId"]

	spaceID, err := strconv.ParseInt(spaceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-seats - Invalid space ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSpaceID)
		return
	}

	// Парсим дату из query параметров
	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /spaces/{id}/available-seats - Invalid date %q: %v", dateStr, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	useCaseReq := &getAvailableSeats.Request{
		SpaceID: spaceID,
		Date:    date,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSeats.ErrSpaceNotFound):
			h.logger.Warn("GET /spaces/{id}/available-seats - Space not found: space_id=%d", spaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, getAvailableSeats.ErrSpaceNotApproved):
			h.logger.Warn("GET /spaces/{id}/available-seats - Space not approved: space_id=%d", spaceID)
			handlers.RespondForbidden(w, msgSpaceNotApproved)

		case errors.Is(err, getAvailableSeats.ErrInvalidDate):
			h.logger.Warn("GET /spaces/{id}/available-seats - Date in past: space_id=%d, date=%s",
				spaceID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSeats.ErrInvalidInput):
			h.logger.Warn("GET /spaces/{id}/available-seats - Invalid input: space_id=%d, error=%v", spaceID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /spaces/{id}/available-seats - Failed to get availability: space_id=%d, error=%v",
				spaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /spaces/{id}/available-seats - Availability retrieved: space_id=%d, date=%s, slots=%d",
		spaceID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
