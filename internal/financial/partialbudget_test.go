package financial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer("PHP")
}

func TestNetBenefit(t *testing.T) {
	analyzer := newTestAnalyzer()

	tests := []struct {
		name       string
		input      Input
		netBenefit float64
		profitable bool
	}{
		{
			"profitable change",
			Input{AddedReturns: 5000, ReducedCosts: 1000, AddedCosts: 2000, ReducedReturns: 500},
			3500, true,
		},
		{
			"losing change",
			Input{AddedReturns: 1000, AddedCosts: 3000},
			-2000, false,
		},
		{
			"neutral change",
			Input{AddedReturns: 2000, AddedCosts: 2000},
			0, false,
		},
		{
			"all zero",
			Input{},
			0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzer.NetBenefit(tt.input)
			assert.InDelta(t, tt.netBenefit, result.NetBenefit, 1e-9)
			assert.Equal(t, tt.profitable, result.IsProfitable)
		})
	}
}

func TestNetBenefitRecommendationText(t *testing.T) {
	analyzer := newTestAnalyzer()

	result := analyzer.NetBenefit(Input{AddedReturns: 1500, AddedCosts: 800})
	assert.Equal(t, "Proceed with the change. Expected net benefit: 700.00 PHP", result.Recommendation)

	result = analyzer.NetBenefit(Input{AddedReturns: 800, AddedCosts: 1500})
	assert.Equal(t, "Do not proceed. Expected net loss: 700.00 PHP", result.Recommendation)

	result = analyzer.NetBenefit(Input{AddedReturns: 1000, AddedCosts: 1000})
	assert.Equal(t, "The change is neutral. Consider other factors before proceeding.", result.Recommendation)
}

func TestCompareScenarios(t *testing.T) {
	analyzer := newTestAnalyzer()

	current := Scenario{YieldValue: 10000, Costs: 4000}
	proposed := Scenario{YieldValue: 12000, Costs: 5000}

	result := analyzer.CompareScenarios(current, proposed)
	assert.InDelta(t, 1000, result.NetBenefit, 1e-9)
	assert.True(t, result.IsProfitable)
}

func TestCompareScenariosIsAntisymmetric(t *testing.T) {
	analyzer := newTestAnalyzer()

	a := Scenario{YieldValue: 9000, Costs: 3000}
	b := Scenario{YieldValue: 11000, Costs: 6000}

	forward := analyzer.CompareScenarios(a, b)
	backward := analyzer.CompareScenarios(b, a)

	assert.InDelta(t, forward.NetBenefit, -backward.NetBenefit, 1e-9)
}

func TestCompareScenariosIdenticalIsNeutral(t *testing.T) {
	analyzer := newTestAnalyzer()

	s := Scenario{YieldValue: 8000, Costs: 2500}
	result := analyzer.CompareScenarios(s, s)

	assert.InDelta(t, 0, result.NetBenefit, 1e-9)
	assert.False(t, result.IsProfitable)
}

func TestAllocateBudgetFundsHighestRatioFirst(t *testing.T) {
	analyzer := newTestAnalyzer()

	costs := map[string]float64{
		"fertilizer": 100,
		"seeds":      200,
	}
	hints := map[string]float64{
		"fertilizer": 400, // ratio 4
		"seeds":      300, // ratio 1.5
	}

	allocation := analyzer.AllocateBudget(costs, 150, hints)

	assert.InDelta(t, 100, allocation["fertilizer"], 1e-9)
	assert.InDelta(t, 50, allocation["seeds"], 1e-9)
}

func TestAllocateBudgetDefaultsMissingHints(t *testing.T) {
	analyzer := newTestAnalyzer()

	// Without hints every ratio is 1.5, so name order decides
	costs := map[string]float64{
		"b-item": 60,
		"a-item": 60,
	}

	allocation := analyzer.AllocateBudget(costs, 100, nil)

	assert.InDelta(t, 60, allocation["a-item"], 1e-9)
	assert.InDelta(t, 40, allocation["b-item"], 1e-9)
}

func TestAllocateBudgetPartialFundingOnTie(t *testing.T) {
	analyzer := newTestAnalyzer()

	costs := map[string]float64{"A": 100, "B": 200}

	allocation := analyzer.AllocateBudget(costs, 150, map[string]float64{})

	assert.InDelta(t, 100, allocation["A"], 1e-9)
	assert.InDelta(t, 50, allocation["B"], 1e-9)
}

func TestAllocateBudgetCoversEverythingWhenAffordable(t *testing.T) {
	analyzer := newTestAnalyzer()

	costs := map[string]float64{
		"labor":     500,
		"transport": 300,
		"tools":     200,
	}

	allocation := analyzer.AllocateBudget(costs, 2000, nil)

	assert.Len(t, allocation, 3)
	total := 0.0
	for name, amount := range allocation {
		assert.InDelta(t, costs[name], amount, 1e-9)
		total += amount
	}
	assert.InDelta(t, 1000, total, 1e-9)
}

func TestAllocateBudgetNeverExceedsBudget(t *testing.T) {
	analyzer := newTestAnalyzer()

	costs := map[string]float64{
		"x": 700,
		"y": 400,
		"z": 900,
	}

	allocation := analyzer.AllocateBudget(costs, 1000, nil)

	total := 0.0
	for _, amount := range allocation {
		total += amount
	}
	assert.LessOrEqual(t, total, 1000.0)
}

func TestAllocateBudgetZeroCostResourceRanksLast(t *testing.T) {
	analyzer := newTestAnalyzer()

	costs := map[string]float64{
		"free":     0,
		"valuable": 100,
	}

	allocation := analyzer.AllocateBudget(costs, 100, nil)
	assert.InDelta(t, 100, allocation["valuable"], 1e-9)
}

func TestAllocateBudgetEmptyInputs(t *testing.T) {
	analyzer := newTestAnalyzer()

	allocation := analyzer.AllocateBudget(map[string]float64{}, 1000, nil)
	assert.Empty(t, allocation)

	allocation = analyzer.AllocateBudget(map[string]float64{"seeds": 100}, 0, nil)
	total := 0.0
	for _, amount := range allocation {
		total += amount
	}
	assert.InDelta(t, 0, total, 1e-9)
}
