package update_tax_rules

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/service/taxconfig/models"
)

type TaxConfigService interface {
	Replace(ctx context.Context, req *models.ReplaceRulesRequest) (*models.TaxRuleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
