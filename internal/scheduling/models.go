package scheduling

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"harvestwise/advisory-backend/internal/crops"
)

// ScheduledOperation is one algorithm-generated entry in a field's operation
// schedule. Persistence of these records belongs to the routing layer's
// task store, not to the generator.
type ScheduledOperation struct {
	ID                 uuid.UUID           `json:"id"`
	FieldID            uuid.UUID           `json:"field_id"`
	OperationType      crops.OperationType `json:"operation_type"`
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	ScheduledDate      time.Time           `json:"scheduled_date"`
	EstimatedCost      float64             `json:"estimated_cost"`
	RequiresDryWeather bool                `json:"requires_dry_weather"`
	Priority           int                 `json:"priority"`
	Generated          bool                `json:"generated"`
}

// operationPriorities is the fixed priority table (1 = highest urgency band
// in the task UI, 5 = lowest).
var operationPriorities = map[crops.OperationType]int{
	crops.OpLandPreparation: 1,
	crops.OpPlanting:        2,
	crops.OpFertilization:   3,
	crops.OpIrrigation:      4,
	crops.OpPestControl:     3,
	crops.OpHarvesting:      1,
}

// PriorityFor returns the scheduling priority for an operation type
func PriorityFor(op crops.OperationType) int {
	if p, ok := operationPriorities[op]; ok {
		return p
	}
	return 3
}

// operationTitle renders an operation type as a display name,
// e.g. "land_preparation" -> "Land Preparation".
func operationTitle(op crops.OperationType) string {
	words := strings.Split(string(op), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
