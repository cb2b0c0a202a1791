package create_checkout

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	createCheckout "github.com/m04kA/CWS-BookingService/internal/usecase/create_checkout"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDateOrTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgSpaceNotFound        = "пространство не найдено"
	msgSpaceNotApproved     = "пространство не прошло модерацию"
	msgRateUnavailable      = "тариф временно недоступен, попробуйте позже"
	msgSpaceClosed          = "пространство закрыто в выбранное время"
	msgSeatsNotAvailable    = "недостаточно свободных мест на выбранные даты"
	msgInvalidDate          = "некорректная дата бронирования"
	msgTaxConfigUnavailable = "налоговая конфигурация временно недоступна, попробуйте позже"
	msgPaymentOrderFailed   = "не удалось создать платёжный заказ"
)

type Handler struct {
	useCase CreateCheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CreateCheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkouts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /checkouts - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /checkouts - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createCheckout.ErrSeatsNotAvailable):
			h.logger.Warn("POST /checkouts - Seats not available: user_id=%d, space_id=%d", userID, req.SpaceID)
			handlers.RespondConflict(w, msgSeatsNotAvailable)

		case errors.Is(err, createCheckout.ErrSpaceNotFound):
			h.logger.Warn("POST /checkouts - Space not found: space_id=%d", req.SpaceID)
			handlers.RespondNotFound(w, msgSpaceNotFound)

		case errors.Is(err, createCheckout.ErrSpaceNotApproved):
			h.logger.Warn("POST /checkouts - Space not approved: space_id=%d", req.SpaceID)
			handlers.RespondForbidden(w, msgSpaceNotApproved)

		case errors.Is(err, createCheckout.ErrRateUnavailable):
			h.logger.Error("POST /checkouts - Rate unavailable: user_id=%d, space_id=%d, error=%v",
				userID, req.SpaceID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgRateUnavailable)

		case errors.Is(err, createCheckout.ErrSpaceClosed):
			h.logger.Warn("POST /checkouts - Space closed: user_id=%d, space_id=%d", userID, req.SpaceID)
			handlers.RespondBadRequest(w, msgSpaceClosed)

		case errors.Is(err, createCheckout.ErrInvalidDate):
			h.logger.Warn("POST /checkouts - Invalid date: user_id=%d, space_id=%d", userID, req.SpaceID)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createCheckout.ErrInvalidInput):
			h.logger.Warn("POST /checkouts - Invalid input: user_id=%d, space_id=%d, error=%v",
				userID, req.SpaceID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createCheckout.ErrTaxConfigUnavailable):
			h.logger.Error("POST /checkouts - Tax config unavailable: user_id=%d, space_id=%d, error=%v",
				userID, req.SpaceID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgTaxConfigUnavailable)

		case errors.Is(err, createCheckout.ErrPaymentOrderFailed):
			h.logger.Error("POST /checkouts - Payment order failed: user_id=%d, space_id=%d, error=%v",
				userID, req.SpaceID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentOrderFailed)

		default:
			h.logger.Error("POST /checkouts - Failed to create checkout: user_id=%d, space_id=%d, error=%v",
				userID, req.SpaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /checkouts - Checkout created successfully: checkout_id=%d, user_id=%d, space_id=%d",
		result.CheckoutID, userID, req.SpaceID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
