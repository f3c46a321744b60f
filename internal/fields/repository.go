package fields

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"harvestwise/advisory-backend/pkg/geo"
)

// ErrFieldNotFound is returned when a referenced field does not exist
var ErrFieldNotFound = errors.New("field not found")

// Repository defines the interface for field reference data access
type Repository interface {
	CreateField(ctx context.Context, field *Field) error
	GetField(ctx context.Context, id uuid.UUID) (*Field, error)
	ListFields(ctx context.Context, farmID *uuid.UUID) ([]Field, error)
	UpdateField(ctx context.Context, field *Field) error
}

// GormRepository implements Repository over Postgres via gorm
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new gorm-backed field repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// CreateField stores a new field. When a GeoJSON boundary is supplied and no
// explicit area is given, the area is derived from the boundary geometry.
func (r *GormRepository) CreateField(ctx context.Context, field *Field) error {
	if field.ID == uuid.Nil {
		field.ID = uuid.New()
	}

	if field.Boundary != nil && field.AreaHectares == 0 {
		hectares, err := geo.AreaHectaresFromGeoJSON(*field.Boundary)
		if err != nil {
			return fmt.Errorf("invalid field boundary: %w", err)
		}
		field.AreaHectares = hectares
	}

	if err := r.db.WithContext(ctx).Create(field).Error; err != nil {
		return fmt.Errorf("failed to create field: %w", err)
	}
	return nil
}

// GetField returns a field by ID
func (r *GormRepository) GetField(ctx context.Context, id uuid.UUID) (*Field, error) {
	var field Field
	err := r.db.WithContext(ctx).First(&field, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFieldNotFound
		}
		return nil, fmt.Errorf("failed to get field: %w", err)
	}
	return &field, nil
}

// ListFields returns all fields, optionally restricted to one farm
func (r *GormRepository) ListFields(ctx context.Context, farmID *uuid.UUID) ([]Field, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if farmID != nil {
		query = query.Where("farm_id = ?", *farmID)
	}

	var result []Field
	if err := query.Find(&result).Error; err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return result, nil
}

// UpdateField persists changes to an existing field
func (r *GormRepository) UpdateField(ctx context.Context, field *Field) error {
	result := r.db.WithContext(ctx).Model(&Field{}).Where("id = ?", field.ID).Updates(field)
	if result.Error != nil {
		return fmt.Errorf("failed to update field: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFieldNotFound
	}
	return nil
}
