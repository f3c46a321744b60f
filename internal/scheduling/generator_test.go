package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"harvestwise/advisory-backend/internal/advisor"
	"harvestwise/advisory-backend/internal/crops"
	"harvestwise/advisory-backend/internal/estimator"
	"harvestwise/advisory-backend/internal/fields"
	"harvestwise/advisory-backend/internal/weather"
)

// MockWeatherEvaluator is a mock implementation of the WeatherEvaluator interface
type MockWeatherEvaluator struct {
	mock.Mock
}

func (m *MockWeatherEvaluator) GetForecast(ctx context.Context, latitude, longitude float64, days int) (*weather.Forecast, error) {
	args := m.Called(ctx, latitude, longitude, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*weather.Forecast), args.Error(1)
}

func (m *MockWeatherEvaluator) CheckSuitability(forecast *weather.Forecast, date time.Time, requiresDryWeather bool) weather.SuitabilityReport {
	args := m.Called(forecast, date, requiresDryWeather)
	return args.Get(0).(weather.SuitabilityReport)
}

func (m *MockWeatherEvaluator) RankWindows(forecast *weather.Forecast, start, end time.Time, requiresDryWeather bool) []weather.SuitabilityWindow {
	args := m.Called(forecast, start, end, requiresDryWeather)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]weather.SuitabilityWindow)
}

var plantingDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func testField() *fields.Field {
	return &fields.Field{
		Name:         "north plot",
		CropType:     crops.CropCorn,
		AreaHectares: 2.0,
		PlantingDate: &plantingDate,
		Latitude:     10.3,
		Longitude:    123.9,
	}
}

func testForecast() *weather.Forecast {
	return &weather.Forecast{Daily: []weather.ForecastDay{{Date: plantingDate}}}
}

func suitable() weather.SuitabilityReport {
	return weather.SuitabilityReport{IsSuitable: true, Reasons: []string{}, Risks: []string{}}
}

func unsuitable() weather.SuitabilityReport {
	return weather.SuitabilityReport{IsSuitable: false, Reasons: []string{"Rain expected (8 mm)"}, Risks: []string{}}
}

func newTestGenerator(evaluator WeatherEvaluator) *Generator {
	return NewGenerator(evaluator, estimator.NewDefault(), crops.NewDefaultCatalog(), DefaultConfig(), zap.NewNop())
}

func TestGenerateScheduleFollowsGrowthStages(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(testForecast(), nil)
	evaluator.On("CheckSuitability", mock.Anything, mock.Anything, true).Return(suitable())

	schedule, err := generator.GenerateSchedule(context.Background(), testField(), nil)
	assert.NoError(t, err)
	assert.Len(t, schedule, len(crops.DefaultOperationOrder))

	// Corn: land prep +7, planting +1, fertilization +21, irrigation +3,
	// pest control +14, harvesting +90, each from the previous chosen date
	expected := []string{
		"2026-03-08",
		"2026-03-09",
		"2026-03-30",
		"2026-04-02",
		"2026-04-16",
		"2026-07-15",
	}
	for i, op := range schedule {
		assert.Equal(t, crops.DefaultOperationOrder[i], op.OperationType)
		assert.Equal(t, expected[i], op.ScheduledDate.Format("2006-01-02"))
		assert.True(t, op.Generated)
		assert.True(t, op.RequiresDryWeather)
	}
}

func TestGenerateScheduleOperationMetadata(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(testForecast(), nil)
	evaluator.On("CheckSuitability", mock.Anything, mock.Anything, true).Return(suitable())

	schedule, err := generator.GenerateSchedule(context.Background(), testField(), []crops.OperationType{crops.OpLandPreparation})
	assert.NoError(t, err)
	assert.Len(t, schedule, 1)

	op := schedule[0]
	assert.Equal(t, "Land Preparation - north plot", op.Name)
	assert.Equal(t, 1, op.Priority)
	assert.InDelta(t, 10000, op.EstimatedCost, 1e-9)
	assert.NotEqual(t, op.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestGenerateScheduleMovesUnsuitableDates(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	proposed := plantingDate.AddDate(0, 0, 7)
	better := proposed.AddDate(0, 0, 2)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(testForecast(), nil)
	evaluator.On("CheckSuitability", mock.Anything, proposed, true).Return(unsuitable())
	evaluator.On("RankWindows", mock.Anything, proposed.AddDate(0, 0, -7), proposed.AddDate(0, 0, 7), true).
		Return([]weather.SuitabilityWindow{
			{Date: better.AddDate(0, 0, 1), WeatherScore: 65, IsSuitable: false},
			{Date: better, WeatherScore: 60, IsSuitable: true},
		})

	schedule, err := generator.GenerateSchedule(context.Background(), testField(), []crops.OperationType{crops.OpLandPreparation})
	assert.NoError(t, err)

	// First suitable window wins even when an unsuitable one scores higher
	assert.Equal(t, better, schedule[0].ScheduledDate)
}

func TestGenerateScheduleFallsBackToTopScoredWindow(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	proposed := plantingDate.AddDate(0, 0, 7)
	top := proposed.AddDate(0, 0, -3)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(testForecast(), nil)
	evaluator.On("CheckSuitability", mock.Anything, proposed, true).Return(unsuitable())
	evaluator.On("RankWindows", mock.Anything, mock.Anything, mock.Anything, true).
		Return([]weather.SuitabilityWindow{
			{Date: top, WeatherScore: 55, IsSuitable: false},
			{Date: proposed.AddDate(0, 0, 2), WeatherScore: 40, IsSuitable: false},
		})

	schedule, err := generator.GenerateSchedule(context.Background(), testField(), []crops.OperationType{crops.OpLandPreparation})
	assert.NoError(t, err)
	assert.Equal(t, top, schedule[0].ScheduledDate)
}

func TestGenerateScheduleKeepsProposedDateWhenWindowEmpty(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	proposed := plantingDate.AddDate(0, 0, 7)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(testForecast(), nil)
	evaluator.On("CheckSuitability", mock.Anything, proposed, true).Return(unsuitable())
	evaluator.On("RankWindows", mock.Anything, mock.Anything, mock.Anything, true).
		Return([]weather.SuitabilityWindow{})

	schedule, err := generator.GenerateSchedule(context.Background(), testField(), []crops.OperationType{crops.OpLandPreparation})
	assert.NoError(t, err)
	assert.Equal(t, proposed, schedule[0].ScheduledDate)
}

func TestGenerateScheduleAnchorFollowsChosenDate(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	firstProposed := plantingDate.AddDate(0, 0, 7)
	moved := firstProposed.AddDate(0, 0, 3)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(testForecast(), nil)
	evaluator.On("CheckSuitability", mock.Anything, firstProposed, true).Return(unsuitable()).Once()
	evaluator.On("RankWindows", mock.Anything, mock.Anything, mock.Anything, true).
		Return([]weather.SuitabilityWindow{{Date: moved, WeatherScore: 90, IsSuitable: true}}).Once()
	// The second operation projects from the moved date, not the naive chain
	evaluator.On("CheckSuitability", mock.Anything, moved.AddDate(0, 0, 1), true).Return(suitable()).Once()

	schedule, err := generator.GenerateSchedule(context.Background(), testField(),
		[]crops.OperationType{crops.OpLandPreparation, crops.OpPlanting})
	assert.NoError(t, err)
	assert.Equal(t, moved, schedule[0].ScheduledDate)
	assert.Equal(t, moved.AddDate(0, 0, 1), schedule[1].ScheduledDate)
	evaluator.AssertExpectations(t)
}

func TestGenerateScheduleEmptyForecast(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).
		Return(&weather.Forecast{Daily: []weather.ForecastDay{}}, nil)

	_, err := generator.GenerateSchedule(context.Background(), testField(), nil)
	assert.ErrorIs(t, err, advisor.ErrNoSuitableWindow)
}

func TestGenerateScheduleForecastUnavailable(t *testing.T) {
	evaluator := new(MockWeatherEvaluator)
	generator := newTestGenerator(evaluator)

	unavailable := &weather.DataUnavailableError{Sources: []string{"open-meteo", "observation cache"}, Cause: errors.New("offline")}
	evaluator.On("GetForecast", mock.Anything, 10.3, 123.9, 180).Return(nil, unavailable)

	_, err := generator.GenerateSchedule(context.Background(), testField(), nil)
	assert.Error(t, err)

	var target *weather.DataUnavailableError
	assert.ErrorAs(t, err, &target)
}

func TestPriorityFor(t *testing.T) {
	assert.Equal(t, 1, PriorityFor(crops.OpLandPreparation))
	assert.Equal(t, 2, PriorityFor(crops.OpPlanting))
	assert.Equal(t, 3, PriorityFor(crops.OpFertilization))
	assert.Equal(t, 4, PriorityFor(crops.OpIrrigation))
	assert.Equal(t, 3, PriorityFor(crops.OpPestControl))
	assert.Equal(t, 1, PriorityFor(crops.OpHarvesting))
	assert.Equal(t, 3, PriorityFor(crops.OperationType("weeding")))
}
