package update_tax_rules

import (
	"errors"
	"net/http"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
	"github.com/m04kA/CWS-BookingService/internal/api/middleware"
	"github.com/m04kA/CWS-BookingService/internal/service/taxconfig"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service TaxConfigService
	logger  Logger
}

func NewHandler(service TaxConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/tax-rules
// Доступно только администраторам платформы
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTaxRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /tax-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /tax-rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.Replace(r.Context(), req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, taxconfig.ErrAccessDenied):
			h.logger.Warn("PUT /tax-rules - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, taxconfig.ErrInvalidInput):
			h.logger.Warn("PUT /tax-rules - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("PUT /tax-rules - Failed to update tax rules: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /tax-rules - Tax rules updated successfully: user_id=%d, count=%d",
		userID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result.Rules)
}
