package update_tax_rules

import (
	"github.com/m04kA/CWS-BookingService/internal/service/taxconfig/models"
)

// TaxRuleRequest одно налоговое правило в HTTP запросе
type TaxRuleRequest struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	IsEnabled  bool    `json:"isEnabled"`
	AppliesTo  string  `json:"appliesTo"`
}

// UpdateTaxRulesRequest HTTP request model
// Порядок правил в списке определяет порядок строк в налоговой разбивке
type UpdateTaxRulesRequest struct {
	Rules []TaxRuleRequest `json:"rules"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateTaxRulesRequest) ToServiceRequest(userID int64) *models.ReplaceRulesRequest {
	rules := make([]models.TaxRuleInput, len(r.Rules))
	for i, rule := range r.Rules {
		rules[i] = models.TaxRuleInput{
			Name:       rule.Name,
			Percentage: rule.Percentage,
			IsEnabled:  rule.IsEnabled,
			AppliesTo:  rule.AppliesTo,
		}
	}

	return &models.ReplaceRulesRequest{
		UserID: userID,
		Rules:  rules,
	}
}
