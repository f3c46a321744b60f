package fields

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"harvestwise/advisory-backend/internal/crops"
)

// Field is the reference record for a single cultivated field. The advisory
// core only reads it; writes happen through the repository on behalf of the
// routing layer.
type Field struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FarmID        *uuid.UUID     `json:"farm_id,omitempty" gorm:"type:uuid;index"`
	Name          string         `json:"name" gorm:"not null"`
	AreaHectares  float64        `json:"area_hectares" gorm:"type:decimal(10,4);not null"`
	CropType      crops.CropType `json:"crop_type" gorm:"type:varchar(32);not null;index"`
	PlantingDate  *time.Time     `json:"planting_date,omitempty" gorm:"type:date"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	SoilType      *string        `json:"soil_type,omitempty"`
	Boundary      *string        `json:"boundary,omitempty"` // GeoJSON feature, optional
	SoilProfile   datatypes.JSON `json:"soil_profile" gorm:"default:'{}'"`
	CurrentStage  string         `json:"current_stage" gorm:"default:'planning'"`
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName overrides the default gorm table name
func (Field) TableName() string {
	return "fields"
}

// EffectivePlantingDate returns the planting date, or now when the field has
// not been planted yet.
func (f *Field) EffectivePlantingDate() time.Time {
	if f.PlantingDate != nil {
		return *f.PlantingDate
	}
	return time.Now()
}
