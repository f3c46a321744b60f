package financial

import (
	"fmt"
	"math"
	"sort"
)

// Input carries the four partial-budgeting deltas of a proposed change
type Input struct {
	AddedReturns   float64 `json:"added_returns"`
	ReducedCosts   float64 `json:"reduced_costs"`
	AddedCosts     float64 `json:"added_costs"`
	ReducedReturns float64 `json:"reduced_returns"`
}

// Result is the outcome of a partial budgeting analysis
type Result struct {
	NetBenefit     float64 `json:"net_benefit"`
	IsProfitable   bool    `json:"is_profitable"`
	Recommendation string  `json:"recommendation"`
}

// Scenario is a monetized course of action: its expected yield value and the
// costs of getting there.
type Scenario struct {
	YieldValue float64 `json:"yield_value"`
	Costs      float64 `json:"costs"`
}

// Analyzer performs partial budgeting comparisons. Stateless; safe for
// concurrent use.
type Analyzer struct {
	currency string
}

// NewAnalyzer creates an analyzer reporting amounts in the given currency
func NewAnalyzer(currency string) *Analyzer {
	return &Analyzer{currency: currency}
}

// NetBenefit applies the partial budgeting formula:
// (added returns + reduced costs) - (added costs + reduced returns).
func (a *Analyzer) NetBenefit(input Input) Result {
	totalBenefits := input.AddedReturns + input.ReducedCosts
	totalCosts := input.AddedCosts + input.ReducedReturns
	netBenefit := totalBenefits - totalCosts

	result := Result{
		NetBenefit:   netBenefit,
		IsProfitable: netBenefit > 0,
	}

	switch {
	case netBenefit > 0:
		result.Recommendation = fmt.Sprintf("Proceed with the change. Expected net benefit: %.2f %s", netBenefit, a.currency)
	case netBenefit == 0:
		result.Recommendation = "The change is neutral. Consider other factors before proceeding."
	default:
		result.Recommendation = fmt.Sprintf("Do not proceed. Expected net loss: %.2f %s", math.Abs(netBenefit), a.currency)
	}

	return result
}

// CompareScenarios derives the four deltas from a current and a proposed
// scenario. Each delta is floored at zero so a gain and a loss never both
// register on the same side of the formula.
func (a *Analyzer) CompareScenarios(current, proposed Scenario) Result {
	input := Input{
		AddedReturns:   math.Max(0, proposed.YieldValue-current.YieldValue),
		ReducedReturns: math.Max(0, current.YieldValue-proposed.YieldValue),
		ReducedCosts:   math.Max(0, current.Costs-proposed.Costs),
		AddedCosts:     math.Max(0, proposed.Costs-current.Costs),
	}

	return a.NetBenefit(input)
}

// AllocateBudget distributes a budget across resources by benefit/cost ratio,
// funding each resource fully while budget remains and the last affordable
// one partially. A missing benefit hint defaults to 1.5x the resource cost.
// This is a deliberate greedy heuristic, not a knapsack solution.
func (a *Analyzer) AllocateBudget(resourceCosts map[string]float64, totalBudget float64, benefitHints map[string]float64) map[string]float64 {
	type ranked struct {
		name  string
		ratio float64
	}

	resources := make([]ranked, 0, len(resourceCosts))
	for name, cost := range resourceCosts {
		benefit, ok := benefitHints[name]
		if !ok {
			benefit = cost * 1.5
		}
		ratio := 0.0
		if cost > 0 {
			ratio = benefit / cost
		}
		resources = append(resources, ranked{name: name, ratio: ratio})
	}

	// Name order first so ratio ties resolve deterministically
	sort.Slice(resources, func(i, j int) bool { return resources[i].name < resources[j].name })
	sort.SliceStable(resources, func(i, j int) bool { return resources[i].ratio > resources[j].ratio })

	allocation := make(map[string]float64)
	remaining := totalBudget

	for _, r := range resources {
		cost := resourceCosts[r.name]
		if cost <= remaining {
			allocation[r.name] = cost
			remaining -= cost
		} else {
			allocation[r.name] = remaining
			remaining = 0
		}
		if remaining <= 0 {
			break
		}
	}

	return allocation
}
