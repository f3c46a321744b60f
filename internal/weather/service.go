package weather

import (
	"context"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// SuitabilityThreshold is the minimum weather score for a day to count as
// suitable for field work.
const SuitabilityThreshold = 70

// ServiceConfig configures the weather service
type ServiceConfig struct {
	CacheReadLimit int `json:"cache_read_limit"` // observations pulled on offline fallback
}

// DefaultServiceConfig returns default weather service configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{CacheReadLimit: 24}
}

// Service evaluates forecast data into day-level suitability decisions and
// owns the online/offline data-source fallback.
type Service struct {
	provider Provider
	store    ObservationStore
	config   ServiceConfig
	logger   *zap.Logger
}

// NewService creates a new weather service
func NewService(provider Provider, store ObservationStore, config ServiceConfig, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		store:    store,
		config:   config,
		logger:   logger,
	}
}

// GetForecast fetches the live forecast for a location and caches its hourly
// samples. When the live fetch fails it falls through exactly once to the
// most recent cached observations; if the cache is also empty the failure
// surfaces as a DataUnavailableError naming both sources.
func (s *Service) GetForecast(ctx context.Context, latitude, longitude float64, days int) (*Forecast, error) {
	forecast, err := s.provider.Fetch(ctx, latitude, longitude, days)
	if err == nil {
		if storeErr := s.store.WriteBatch(ctx, forecast.Hourly); storeErr != nil {
			// A failed cache write must not fail the forecast itself
			s.logger.Warn("failed to cache forecast observations", zap.Error(storeErr))
		}
		return forecast, nil
	}

	s.logger.Warn("live forecast fetch failed, attempting offline fallback",
		zap.Float64("latitude", latitude),
		zap.Float64("longitude", longitude),
		zap.Error(err))

	cached, cacheErr := s.store.ReadRecent(ctx, latitude, longitude, s.config.CacheReadLimit)
	if cacheErr != nil || len(cached) == 0 {
		return nil, &DataUnavailableError{
			Sources: []string{"open-meteo", "observation cache"},
			Cause:   err,
		}
	}

	return reconstructForecast(latitude, longitude, cached), nil
}

// reconstructForecast rebuilds a forecast structure from cached hourly
// samples so downstream scoring can run unchanged while offline. Daily
// records are aggregated per calendar day: precipitation summed,
// temperatures reduced to min/max.
func reconstructForecast(latitude, longitude float64, observations []HourlyObservation) *Forecast {
	forecast := &Forecast{
		Latitude:    latitude,
		Longitude:   longitude,
		Hourly:      observations,
		RetrievedAt: observations[0].Time,
		Offline:     true,
	}

	type dayAgg struct {
		precip  float64
		tempMax float64
		tempMin float64
		hasTemp bool
	}

	days := make(map[string]*dayAgg)
	var order []string

	for _, obs := range observations {
		key := obs.Time.Format("2006-01-02")
		agg, ok := days[key]
		if !ok {
			agg = &dayAgg{}
			days[key] = agg
			order = append(order, key)
		}
		if obs.Precipitation != nil {
			agg.precip += *obs.Precipitation
		}
		if obs.Temperature != nil {
			t := *obs.Temperature
			if !agg.hasTemp || t > agg.tempMax {
				agg.tempMax = t
			}
			if !agg.hasTemp || t < agg.tempMin {
				agg.tempMin = t
			}
			agg.hasTemp = true
		}
	}

	sort.Strings(order)
	for _, key := range order {
		date, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		agg := days[key]
		forecast.Daily = append(forecast.Daily, ForecastDay{
			Date:             date,
			PrecipitationSum: agg.precip,
			TempMax:          agg.tempMax,
			TempMin:          agg.tempMin,
		})
	}

	return forecast
}

// CheckSuitability evaluates a single forecast day for field work. Findings
// are advisory strings, never errors. Days absent from the forecast report
// suitable with no findings.
func (s *Service) CheckSuitability(forecast *Forecast, date time.Time, requiresDryWeather bool) SuitabilityReport {
	report := SuitabilityReport{
		IsSuitable: true,
		Reasons:    []string{},
		Risks:      []string{},
	}

	target := date.Format("2006-01-02")
	for _, day := range forecast.Daily {
		if day.Date.Format("2006-01-02") != target {
			continue
		}

		if requiresDryWeather && day.PrecipitationSum > 0 {
			report.IsSuitable = false
			report.Reasons = append(report.Reasons, rainReason(day.PrecipitationSum))
			report.Risks = append(report.Risks, "Chemical runoff risk")
		}

		if day.TempMax > 35 {
			report.Risks = append(report.Risks, "High temperature stress")
		}
		if day.TempMin < 10 {
			report.Risks = append(report.Risks, "Low temperature stress")
		}
		break
	}

	return report
}

// RankWindows scores every forecast day within [start, end] inclusive and
// returns the windows ordered by score descending. Equal scores keep their
// original day order.
func (s *Service) RankWindows(forecast *Forecast, start, end time.Time, requiresDryWeather bool) []SuitabilityWindow {
	var windows []SuitabilityWindow

	for _, day := range forecast.Daily {
		if day.Date.Before(start) || day.Date.After(end) {
			continue
		}

		score := scoreDay(day, requiresDryWeather)

		windows = append(windows, SuitabilityWindow{
			Date:          day.Date,
			WeatherScore:  score,
			Precipitation: day.PrecipitationSum,
			TempMax:       day.TempMax,
			TempMin:       day.TempMin,
			IsSuitable:    score >= SuitabilityThreshold,
		})
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].WeatherScore > windows[j].WeatherScore
	})

	return windows
}

// scoreDay computes the weather score for one day. Baseline 100, penalized
// by precipitation, adjusted by max temperature, clamped to >= 0.
func scoreDay(day ForecastDay, requiresDryWeather bool) float64 {
	score := 100.0

	if requiresDryWeather {
		if day.PrecipitationSum > 0 {
			score -= day.PrecipitationSum * 20
		}
	} else if day.PrecipitationSum > 10 {
		score -= 30
	}

	if day.TempMax >= 20 && day.TempMax <= 30 {
		score += 10
	} else if day.TempMax < 15 || day.TempMax > 35 {
		score -= 20
	}

	if score < 0 {
		score = 0
	}
	return score
}

func rainReason(precipitation float64) string {
	return "Rain expected (" + strconv.FormatFloat(precipitation, 'f', -1, 64) + " mm)"
}
