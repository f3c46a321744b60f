package crops

import (
	"encoding/json"
	"fmt"
	"os"
)

// CropType identifies a supported crop
type CropType string

const (
	CropCoconut CropType = "coconut"
	CropCorn    CropType = "corn"
	CropRice    CropType = "rice"
)

// OperationType identifies a discrete farm operation
type OperationType string

const (
	OpLandPreparation OperationType = "land_preparation"
	OpPlanting        OperationType = "planting"
	OpFertilization   OperationType = "fertilization"
	OpIrrigation      OperationType = "irrigation"
	OpPestControl     OperationType = "pest_control"
	OpHarvesting      OperationType = "harvesting"
)

// DefaultOperationOrder is the growth-stage order used when a caller does not
// supply an explicit operation sequence.
var DefaultOperationOrder = []OperationType{
	OpLandPreparation,
	OpPlanting,
	OpFertilization,
	OpIrrigation,
	OpPestControl,
	OpHarvesting,
}

// TempRange is an inclusive optimal temperature band in degrees Celsius
type TempRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Profile holds the agronomic reference parameters for one crop.
// Profiles are loaded once at startup and never mutated afterwards.
type Profile struct {
	Crop                CropType                  `json:"crop"`
	GrowthStages        map[OperationType]int     `json:"growth_stages"` // operation -> duration in days
	OptimalTempRange    TempRange                 `json:"optimal_temp_range"`
	OptimalRainfallMM   float64                   `json:"optimal_rainfall_mm"`
	FertilizerFrequency int                       `json:"fertilizer_frequency_days"`
}

// Catalog is the immutable set of crop profiles known to the system
type Catalog struct {
	profiles map[CropType]Profile
	fallback CropType
}

// DefaultProfiles returns the built-in crop parameter tables
func DefaultProfiles() map[CropType]Profile {
	return map[CropType]Profile{
		CropCoconut: {
			Crop: CropCoconut,
			GrowthStages: map[OperationType]int{
				OpLandPreparation: 7,
				OpPlanting:        1,
				OpFertilization:   30,
				OpIrrigation:      7,
				OpPestControl:     15,
				OpHarvesting:      180,
			},
			OptimalTempRange:    TempRange{Min: 25, Max: 32},
			OptimalRainfallMM:   1500,
			FertilizerFrequency: 90,
		},
		CropCorn: {
			Crop: CropCorn,
			GrowthStages: map[OperationType]int{
				OpLandPreparation: 7,
				OpPlanting:        1,
				OpFertilization:   21,
				OpIrrigation:      3,
				OpPestControl:     14,
				OpHarvesting:      90,
			},
			OptimalTempRange:    TempRange{Min: 20, Max: 30},
			OptimalRainfallMM:   500,
			FertilizerFrequency: 30,
		},
		CropRice: {
			Crop: CropRice,
			GrowthStages: map[OperationType]int{
				OpLandPreparation: 14,
				OpPlanting:        1,
				OpFertilization:   25,
				OpIrrigation:      1,
				OpPestControl:     20,
				OpHarvesting:      120,
			},
			OptimalTempRange:    TempRange{Min: 20, Max: 35},
			OptimalRainfallMM:   1000,
			FertilizerFrequency: 35,
		},
	}
}

// NewCatalog creates a catalog from the given profiles. Corn serves as the
// fallback profile for unknown crop types, matching the field reference data
// most farms in the target region carry.
func NewCatalog(profiles map[CropType]Profile) *Catalog {
	return &Catalog{
		profiles: profiles,
		fallback: CropCorn,
	}
}

// NewDefaultCatalog creates a catalog with the built-in profiles
func NewDefaultCatalog() *Catalog {
	return NewCatalog(DefaultProfiles())
}

// LoadCatalog loads crop profiles from a JSON file, falling back to the
// built-in tables for crops the file does not mention.
func LoadCatalog(path string) (*Catalog, error) {
	profiles := DefaultProfiles()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read crop profiles: %w", err)
		}

		var overrides map[CropType]Profile
		if err := json.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse crop profiles: %w", err)
		}
		for crop, profile := range overrides {
			profile.Crop = crop
			profiles[crop] = profile
		}
	}

	return NewCatalog(profiles), nil
}

// Profile returns the profile for the given crop, or the fallback profile
// when the crop is unknown.
func (c *Catalog) Profile(crop CropType) Profile {
	if p, ok := c.profiles[crop]; ok {
		return p
	}
	return c.profiles[c.fallback]
}

// Has reports whether the catalog carries an explicit profile for the crop
func (c *Catalog) Has(crop CropType) bool {
	_, ok := c.profiles[crop]
	return ok
}

// StageDuration returns the configured duration in days for an operation,
// defaulting to 7 days for operations absent from the crop's calendar.
func (p Profile) StageDuration(op OperationType) int {
	if d, ok := p.GrowthStages[op]; ok {
		return d
	}
	return 7
}
