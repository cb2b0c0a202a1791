package verify_payment

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	verifyPayment "github.com/m04kA/CWS-BookingService/internal/usecase/verify_payment"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgInvalidSignature    = "подпись платежа не прошла проверку"
	msgCheckoutNotFound    = "чекаут не найден"
	msgCheckoutNotPayable  = "чекаут отменён или просрочен"
	msgForbidden           = "доступ запрещен"
)

type Handler struct {
	useCase VerifyPaymentUseCase
	logger  Logger
}

func NewHandler(useCase VerifyPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkouts/verify-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkouts/verify-payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /checkouts/verify-payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, verifyPayment.ErrInvalidSignature):
			h.logger.Warn("POST /checkouts/verify-payment - Invalid signature: user_id=%d, order=%s",
				userID, req.PaymentOrderID)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, verifyPayment.ErrCheckoutNotFound):
			h.logger.Warn("POST /checkouts/verify-payment - Checkout not found: order=%s", req.PaymentOrderID)
			handlers.RespondNotFound(w, msgCheckoutNotFound)

		case errors.Is(err, verifyPayment.ErrAccessDenied):
			h.logger.Warn("POST /checkouts/verify-payment - Access denied: user_id=%d, order=%s",
				userID, req.PaymentOrderID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, verifyPayment.ErrCheckoutNotPayable):
			h.logger.Warn("POST /checkouts/verify-payment - Checkout not payable: order=%s", req.PaymentOrderID)
			handlers.RespondConflict(w, msgCheckoutNotPayable)

		case errors.Is(err, verifyPayment.ErrInvalidInput):
			h.logger.Warn("POST /checkouts/verify-payment - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /checkouts/verify-payment - Failed to verify payment: user_id=%d, order=%s, error=%v",
				userID, req.PaymentOrderID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /checkouts/verify-payment - Payment verified successfully: checkout_id=%d, user_id=%d",
		result.CheckoutID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
