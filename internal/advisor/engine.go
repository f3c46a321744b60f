package advisor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"harvestwise/advisory-backend/internal/crops"
	"harvestwise/advisory-backend/internal/estimator"
	"harvestwise/advisory-backend/internal/fields"
	"harvestwise/advisory-backend/internal/weather"
)

// ErrNoSuitableWindow is returned when no forecast day falls inside the
// search horizon even after relaxing the dry-weather requirement.
var ErrNoSuitableWindow = errors.New("no suitable weather windows found in the forecast horizon")

// WindowRanker produces scored suitability windows over a date range
type WindowRanker interface {
	RankWindows(forecast *weather.Forecast, start, end time.Time, requiresDryWeather bool) []weather.SuitabilityWindow
}

// Config configures the recommendation engine
type Config struct {
	HorizonDays int    `json:"horizon_days"`
	Currency    string `json:"currency"`
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		HorizonDays: 30,
		Currency:    "PHP",
	}
}

// Engine selects the best operation date within a forecast horizon under an
// optional budget ceiling. Single-pass decision procedure, no internal state
// between calls.
type Engine struct {
	ranker    WindowRanker
	estimator *estimator.Estimator
	config    Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewEngine creates a new recommendation engine
func NewEngine(ranker WindowRanker, est *estimator.Estimator, config Config, logger *zap.Logger) *Engine {
	return &Engine{
		ranker:    ranker,
		estimator: est,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// HorizonOrDefault resolves a per-call horizon: positive values win, then the
// configured horizon, then 30 days.
func (e *Engine) HorizonOrDefault(days int) int {
	if days > 0 {
		return days
	}
	if e.config.HorizonDays > 0 {
		return e.config.HorizonDays
	}
	return 30
}

// weatherPass is one step of the dry-weather relaxation sequence. Passes are
// tried in order until one yields a non-empty window set.
type weatherPass struct {
	name               string
	requiresDryWeather bool
}

var weatherPasses = []weatherPass{
	{name: "dry_weather", requiresDryWeather: true},
	{name: "any_weather", requiresDryWeather: false},
}

// candidate is a suitability window annotated with its financial outlook
type candidate struct {
	window       weather.SuitabilityWindow
	cost         float64
	yield        float64
	netReturn    float64
	withinBudget bool
}

// Recommend picks the best date for an operation on a field. A nil budget
// means unconstrained. horizonDays <= 0 falls back to the configured horizon.
func (e *Engine) Recommend(ctx context.Context, field *fields.Field, op crops.OperationType, budget *float64, forecast *weather.Forecast, horizonDays int) (*Recommendation, error) {
	horizon := e.HorizonOrDefault(horizonDays)

	start := e.now()
	end := start.AddDate(0, 0, horizon)

	// Dry-weather relaxation: strict pass first, then without the
	// requirement. Both empty means nothing in range at all.
	var windows []weather.SuitabilityWindow
	for _, pass := range weatherPasses {
		windows = e.ranker.RankWindows(forecast, start, end, pass.requiresDryWeather)
		if len(windows) > 0 {
			break
		}
		e.logger.Debug("weather pass produced no windows",
			zap.String("pass", pass.name),
			zap.String("operation", string(op)))
	}
	if len(windows) == 0 {
		return nil, ErrNoSuitableWindow
	}

	cost, err := e.estimator.EstimateCost(op, field.AreaHectares)
	if err != nil {
		return nil, fmt.Errorf("cost estimation failed: %w", err)
	}

	// Budget pass: discard windows over budget. If that empties the set,
	// relax fully and keep every window annotated with its budget status.
	// The relaxation itself never raises an error.
	candidates := e.filterByBudget(windows, cost, budget, false)
	if len(candidates) == 0 {
		e.logger.Info("budget constraint excluded all windows, relaxing",
			zap.String("operation", string(op)),
			zap.Float64("estimated_cost", cost))
		candidates = e.filterByBudget(windows, cost, budget, true)
	}

	for i := range candidates {
		yield, err := e.estimator.EstimateYield(field.CropType, op, candidates[i].window.WeatherScore, field.AreaHectares)
		if err != nil {
			return nil, fmt.Errorf("yield estimation failed: %w", err)
		}
		candidates[i].yield = yield
		candidates[i].netReturn = yield - candidates[i].cost
	}

	// Net return first, weather score second; the stable sort preserves the
	// ranker's score-descending order for full ties.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].netReturn != candidates[j].netReturn {
			return candidates[i].netReturn > candidates[j].netReturn
		}
		return candidates[i].window.WeatherScore > candidates[j].window.WeatherScore
	})

	best := candidates[0]
	net := best.netReturn

	return &Recommendation{
		RecommendedDate:    best.window.Date,
		ConfidenceScore:    math.Min(0.95, best.window.WeatherScore/100),
		EstimatedCost:      best.cost,
		WeatherRisk:        riskForPrecipitation(best.window.Precipitation),
		NetFinancialReturn: &net,
		WithinBudget:       best.withinBudget,
		Reason:             e.composeReason(best),
	}, nil
}

// filterByBudget applies the budget ceiling. In relaxed mode every window
// survives and carries its real budget status instead.
func (e *Engine) filterByBudget(windows []weather.SuitabilityWindow, cost float64, budget *float64, relaxed bool) []candidate {
	var candidates []candidate
	for _, w := range windows {
		within := budget == nil || cost <= *budget
		if !relaxed && !within {
			continue
		}
		candidates = append(candidates, candidate{
			window:       w,
			cost:         cost,
			withinBudget: within,
		})
	}
	return candidates
}

// composeReason builds the human-readable justification string
func (e *Engine) composeReason(best candidate) string {
	var reasons []string

	switch {
	case best.window.WeatherScore >= 80:
		reasons = append(reasons, "Excellent weather conditions")
	case best.window.WeatherScore >= 60:
		reasons = append(reasons, "Good weather conditions")
	default:
		reasons = append(reasons, "Acceptable weather conditions")
	}

	if best.withinBudget {
		reasons = append(reasons, "Within budget constraints")
	} else {
		reasons = append(reasons, fmt.Sprintf("Estimated cost: %.2f %s", best.cost, e.config.Currency))
	}

	return strings.Join(reasons, "; ")
}
