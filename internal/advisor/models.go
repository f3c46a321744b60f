package advisor

import (
	"time"
)

// WeatherRisk tiers a recommendation's rain exposure
type WeatherRisk string

const (
	RiskLow    WeatherRisk = "low"
	RiskMedium WeatherRisk = "medium"
	RiskHigh   WeatherRisk = "high"
)

// Recommendation is the outcome of a budget-constrained best-date search.
// Constructed once per call and never mutated afterwards.
type Recommendation struct {
	RecommendedDate    time.Time   `json:"recommended_date"`
	ConfidenceScore    float64     `json:"confidence_score"`
	EstimatedCost      float64     `json:"estimated_cost"`
	WeatherRisk        WeatherRisk `json:"weather_risk"`
	NetFinancialReturn *float64    `json:"net_financial_return,omitempty"`
	WithinBudget       bool        `json:"within_budget"`
	Reason             string      `json:"recommendation_reason"`
}

// riskForPrecipitation derives the risk tier from forecast precipitation
func riskForPrecipitation(precipitation float64) WeatherRisk {
	switch {
	case precipitation > 10:
		return RiskHigh
	case precipitation > 5:
		return RiskMedium
	default:
		return RiskLow
	}
}
