package get_tax_rules

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/service/taxconfig/models"
)

type TaxConfigService interface {
	List(ctx context.Context) (*models.TaxRuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
