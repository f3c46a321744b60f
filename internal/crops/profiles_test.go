package crops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCatalogCoversAllCrops(t *testing.T) {
	catalog := NewDefaultCatalog()

	for _, crop := range []CropType{CropCoconut, CropCorn, CropRice} {
		assert.True(t, catalog.Has(crop))
		profile := catalog.Profile(crop)
		assert.Equal(t, crop, profile.Crop)
		assert.NotEmpty(t, profile.GrowthStages)
	}
}

func TestCatalogFallsBackToCorn(t *testing.T) {
	catalog := NewDefaultCatalog()

	assert.False(t, catalog.Has(CropType("durian")))
	profile := catalog.Profile(CropType("durian"))
	assert.Equal(t, CropCorn, profile.Crop)
}

func TestStageDuration(t *testing.T) {
	catalog := NewDefaultCatalog()

	rice := catalog.Profile(CropRice)
	assert.Equal(t, 14, rice.StageDuration(OpLandPreparation))
	assert.Equal(t, 120, rice.StageDuration(OpHarvesting))

	// Operations absent from the calendar default to a week
	assert.Equal(t, 7, rice.StageDuration(OperationType("weeding")))
}

func TestDefaultOperationOrder(t *testing.T) {
	assert.Equal(t, []OperationType{
		OpLandPreparation,
		OpPlanting,
		OpFertilization,
		OpIrrigation,
		OpPestControl,
		OpHarvesting,
	}, DefaultOperationOrder)
}

func TestLoadCatalogWithoutPathUsesDefaults(t *testing.T) {
	catalog, err := LoadCatalog("")
	assert.NoError(t, err)
	assert.True(t, catalog.Has(CropRice))
}

func TestLoadCatalogAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	payload := `{
		"banana": {
			"growth_stages": {"land_preparation": 10, "harvesting": 270},
			"optimal_temp_range": {"min": 26, "max": 30},
			"optimal_rainfall_mm": 2000,
			"fertilizer_frequency_days": 60
		},
		"rice": {
			"growth_stages": {"land_preparation": 21}
		}
	}`
	assert.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	catalog, err := LoadCatalog(path)
	assert.NoError(t, err)

	banana := catalog.Profile(CropType("banana"))
	assert.Equal(t, CropType("banana"), banana.Crop)
	assert.Equal(t, 10, banana.StageDuration(OpLandPreparation))
	assert.Equal(t, 270, banana.StageDuration(OpHarvesting))

	// An override replaces the whole profile, not just the listed stages
	rice := catalog.Profile(CropRice)
	assert.Equal(t, 21, rice.StageDuration(OpLandPreparation))
	assert.Equal(t, 7, rice.StageDuration(OpHarvesting))

	// Crops the file does not mention keep their defaults
	corn := catalog.Profile(CropCorn)
	assert.Equal(t, 90, corn.StageDuration(OpHarvesting))
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	assert.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = LoadCatalog(path)
	assert.Error(t, err)
}
