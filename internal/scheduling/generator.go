package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"harvestwise/advisory-backend/internal/advisor"
	"harvestwise/advisory-backend/internal/crops"
	"harvestwise/advisory-backend/internal/estimator"
	"harvestwise/advisory-backend/internal/fields"
	"harvestwise/advisory-backend/internal/weather"
)

// WeatherEvaluator is the slice of the weather service the generator needs
type WeatherEvaluator interface {
	GetForecast(ctx context.Context, latitude, longitude float64, days int) (*weather.Forecast, error)
	CheckSuitability(forecast *weather.Forecast, date time.Time, requiresDryWeather bool) weather.SuitabilityReport
	RankWindows(forecast *weather.Forecast, start, end time.Time, requiresDryWeather bool) []weather.SuitabilityWindow
}

// Config configures the schedule generator
type Config struct {
	ForecastDays     int `json:"forecast_days"`      // horizon requested for the whole season
	SearchRadiusDays int `json:"search_radius_days"` // window searched around an unsuitable proposed date
}

// DefaultConfig returns default generator configuration
func DefaultConfig() Config {
	return Config{
		ForecastDays:     180,
		SearchRadiusDays: 7,
	}
}

// Generator chains operation dates across a crop's growth-stage calendar,
// advancing a running anchor date one operation at a time. It does not joint-
// optimize across operations.
type Generator struct {
	weather   WeatherEvaluator
	estimator *estimator.Estimator
	catalog   *crops.Catalog
	config    Config
	logger    *zap.Logger
}

// NewGenerator creates a new schedule generator
func NewGenerator(evaluator WeatherEvaluator, est *estimator.Estimator, catalog *crops.Catalog, config Config, logger *zap.Logger) *Generator {
	return &Generator{
		weather:   evaluator,
		estimator: est,
		catalog:   catalog,
		config:    config,
		logger:    logger,
	}
}

// GenerateSchedule produces the full ordered operation schedule for a field.
// A nil or empty operation list uses the default growth-stage order. The
// result is never partial: an unresolvable step fails the whole call.
func (g *Generator) GenerateSchedule(ctx context.Context, field *fields.Field, operations []crops.OperationType) ([]ScheduledOperation, error) {
	if len(operations) == 0 {
		operations = crops.DefaultOperationOrder
	}

	profile := g.catalog.Profile(field.CropType)

	forecast, err := g.weather.GetForecast(ctx, field.Latitude, field.Longitude, g.config.ForecastDays)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast for schedule: %w", err)
	}
	if len(forecast.Daily) == 0 {
		return nil, advisor.ErrNoSuitableWindow
	}

	anchor := field.EffectivePlantingDate()
	schedule := make([]ScheduledOperation, 0, len(operations))

	for _, op := range operations {
		proposed := anchor.AddDate(0, 0, profile.StageDuration(op))
		chosen := g.resolveDate(forecast, proposed)

		cost, err := g.estimator.EstimateCost(op, field.AreaHectares)
		if err != nil {
			return nil, fmt.Errorf("cost estimation failed for %s: %w", op, err)
		}

		schedule = append(schedule, ScheduledOperation{
			ID:                 uuid.New(),
			FieldID:            field.ID,
			OperationType:      op,
			Name:               fmt.Sprintf("%s - %s", operationTitle(op), field.Name),
			Description:        fmt.Sprintf("Automatically scheduled %s for %s", op, field.CropType),
			ScheduledDate:      chosen,
			EstimatedCost:      cost,
			RequiresDryWeather: true,
			Priority:           PriorityFor(op),
			Generated:          true,
		})

		g.logger.Debug("scheduled operation",
			zap.String("operation", string(op)),
			zap.Time("proposed", proposed),
			zap.Time("chosen", chosen))

		// The anchor follows the chosen date, which the relaxation window
		// may have moved earlier than the naive projection. Kept as-is
		// pending product clarification on monotonic progression.
		anchor = chosen
	}

	return schedule, nil
}

// resolveDate checks the proposed date and, when unsuitable, searches the
// surrounding window for a better day: the first suitable one, else the
// highest-scoring one, else the proposed date when the window is empty.
func (g *Generator) resolveDate(forecast *weather.Forecast, proposed time.Time) time.Time {
	report := g.weather.CheckSuitability(forecast, proposed, true)
	if report.IsSuitable {
		return proposed
	}

	radius := g.config.SearchRadiusDays
	windows := g.weather.RankWindows(forecast,
		proposed.AddDate(0, 0, -radius),
		proposed.AddDate(0, 0, radius),
		true)
	if len(windows) == 0 {
		return proposed
	}

	for _, w := range windows {
		if w.IsSuitable {
			return w.Date
		}
	}
	return windows[0].Date
}
