package models

import (
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
)

// Request модели

// TaxRuleInput одно налоговое правило в запросе на обновление конфигурации
type TaxRuleInput struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	IsEnabled  bool    `json:"isEnabled"`
	AppliesTo  string  `json:"appliesTo"`
}

// ReplaceRulesRequest запрос на полную замену налоговой конфигурации
// Порядок правил в списке определяет порядок строк в налоговой разбивке
type ReplaceRulesRequest struct {
	UserID int64          `json:"userId"`
	Rules  []TaxRuleInput `json:"rules"`
}

// ToDomainRules конвертирует запрос в domain модели
// Позиции присваивает репозиторий в порядке списка
func (r *ReplaceRulesRequest) ToDomainRules() []*domain.TaxRule {
	rules := make([]*domain.TaxRule, len(r.Rules))
	for i, input := range r.Rules {
		rules[i] = &domain.TaxRule{
			Name:       input.Name,
			Percentage: input.Percentage,
			IsEnabled:  input.IsEnabled,
			AppliesTo:  input.AppliesTo,
		}
	}
	return rules
}

// Response модели

// TaxRuleResponse ответ с данными налогового правила
type TaxRuleResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Percentage float64   `json:"percentage"`
	IsEnabled  bool      `json:"isEnabled"`
	AppliesTo  string    `json:"appliesTo"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TaxRuleListResponse ответ со списком налоговых правил
type TaxRuleListResponse struct {
	Rules []TaxRuleResponse `json:"rules"`
}

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(rule *domain.TaxRule) *TaxRuleResponse {
	if rule == nil {
		return nil
	}

	return &TaxRuleResponse{
		ID:         rule.ID,
		Name:       rule.Name,
		Percentage: rule.Percentage,
		IsEnabled:  rule.IsEnabled,
		AppliesTo:  rule.AppliesTo,
		Position:   rule.Position,
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.TaxRule) *TaxRuleListResponse {
	resp := &TaxRuleListResponse{
		Rules: make([]TaxRuleResponse, len(rules)),
	}

	for i, rule := range rules {
		if ruleResp := FromDomainRule(rule); ruleResp != nil {
			resp.Rules[i] = *ruleResp
		}
	}

	return resp
}
