package estimator

import (
	"fmt"
	"math"

	"harvestwise/advisory-backend/internal/crops"
)

// InvalidInputError reports a malformed numeric argument
type InvalidInputError struct {
	Field   string
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Field, e.Message)
}

// Tables holds the per-operation and per-crop monetary reference data.
// Values are in the configured currency unit per hectare.
type Tables struct {
	UnitCosts       map[crops.OperationType]float64 `json:"unit_costs"`
	DefaultUnitCost float64                         `json:"default_unit_cost"`
	BaseYields      map[crops.CropType]float64      `json:"base_yields"`
	DefaultYield    float64                         `json:"default_yield"`
	ImpactFactors   map[crops.OperationType]float64 `json:"impact_factors"`
	DefaultImpact   float64                         `json:"default_impact"`
}

// DefaultTables returns the built-in cost and yield reference tables
func DefaultTables() Tables {
	return Tables{
		UnitCosts: map[crops.OperationType]float64{
			crops.OpLandPreparation: 5000,
			crops.OpPlanting:        3000,
			crops.OpFertilization:   2000,
			crops.OpIrrigation:      1000,
			crops.OpPestControl:     1500,
			crops.OpHarvesting:      4000,
		},
		DefaultUnitCost: 1000,
		BaseYields: map[crops.CropType]float64{
			crops.CropCoconut: 50000,
			crops.CropCorn:    30000,
			crops.CropRice:    40000,
		},
		DefaultYield: 20000,
		ImpactFactors: map[crops.OperationType]float64{
			crops.OpLandPreparation: 0.10,
			crops.OpPlanting:        0.15,
			crops.OpFertilization:   0.25,
			crops.OpIrrigation:      0.20,
			crops.OpPestControl:     0.15,
			crops.OpHarvesting:      0.15,
		},
		DefaultImpact: 0.1,
	}
}

// Estimator computes operation costs and projected yield values from the
// configured lookup tables. It is pure: identical inputs always produce
// identical outputs.
type Estimator struct {
	tables Tables
}

// New creates an estimator over the given tables
func New(tables Tables) *Estimator {
	return &Estimator{tables: tables}
}

// NewDefault creates an estimator over the built-in tables
func NewDefault() *Estimator {
	return New(DefaultTables())
}

// EstimateCost returns the estimated monetary cost of performing the given
// operation over the given area. Unknown operation types use the default
// unit cost.
func (e *Estimator) EstimateCost(op crops.OperationType, areaHectares float64) (float64, error) {
	if err := validateArea(areaHectares); err != nil {
		return 0, err
	}

	unitCost, ok := e.tables.UnitCosts[op]
	if !ok {
		unitCost = e.tables.DefaultUnitCost
	}

	return unitCost * areaHectares, nil
}

// EstimateYield returns the projected yield value for an operation under the
// given weather score. The weather multiplier maps a 0-100 score onto the
// 0.5-1.5 range.
func (e *Estimator) EstimateYield(crop crops.CropType, op crops.OperationType, weatherScore, areaHectares float64) (float64, error) {
	if err := validateArea(areaHectares); err != nil {
		return 0, err
	}
	if math.IsNaN(weatherScore) || math.IsInf(weatherScore, 0) {
		return 0, &InvalidInputError{Field: "weather_score", Message: "must be a finite number"}
	}

	baseYield, ok := e.tables.BaseYields[crop]
	if !ok {
		baseYield = e.tables.DefaultYield
	}

	impact, ok := e.tables.ImpactFactors[op]
	if !ok {
		impact = e.tables.DefaultImpact
	}

	weatherMultiplier := 0.5 + weatherScore/100

	return baseYield * areaHectares * impact * weatherMultiplier, nil
}

func validateArea(areaHectares float64) error {
	if math.IsNaN(areaHectares) || math.IsInf(areaHectares, 0) {
		return &InvalidInputError{Field: "area_hectares", Message: "must be a finite number"}
	}
	if areaHectares < 0 {
		return &InvalidInputError{Field: "area_hectares", Message: "must not be negative"}
	}
	return nil
}
