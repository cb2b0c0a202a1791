package get_tax_rules

import (
	"net/http"

	"github.com/m04kA/CWS-BookingService/internal/api/handlers"
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

// Handle GET /api/v1/tax-rules
// Публичный endpoint - используется для показа налоговой разбивки до оплаты
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /tax-rules - Failed to get tax rules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /tax-rules - Tax rules retrieved successfully: count=%d", len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result.Rules)
}
