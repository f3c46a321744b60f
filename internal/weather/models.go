package weather

import (
	"fmt"
	"strings"
	"time"
)

// ForecastDay is a single normalized day of forecast data
type ForecastDay struct {
	Date             time.Time `json:"date"`
	PrecipitationSum float64   `json:"precipitation_sum"`
	TempMax          float64   `json:"temperature_max"`
	TempMin          float64   `json:"temperature_min"`
	WeatherCode      *int      `json:"weather_code,omitempty"`
}

// HourlyObservation is a single normalized hourly sample. Optional sensors
// are pointers so missing readings survive the round trip through the store.
type HourlyObservation struct {
	Time             time.Time `json:"time" db:"observed_at"`
	Latitude         float64   `json:"latitude" db:"location_lat"`
	Longitude        float64   `json:"longitude" db:"location_lon"`
	Temperature      *float64  `json:"temperature_2m,omitempty" db:"temperature_2m"`
	RelativeHumidity *float64  `json:"relative_humidity_2m,omitempty" db:"relative_humidity_2m"`
	Precipitation    *float64  `json:"precipitation,omitempty" db:"precipitation"`
	Rain             *float64  `json:"rain,omitempty" db:"rain"`
	SoilMoisture     *float64  `json:"soil_moisture_0_1cm,omitempty" db:"soil_moisture_0_1cm"`
	WindSpeed        *float64  `json:"wind_speed_10m,omitempty" db:"wind_speed_10m"`
}

// Forecast is the normalized forecast structure consumed by the evaluator
// and the downstream decision components.
type Forecast struct {
	Latitude    float64             `json:"latitude"`
	Longitude   float64             `json:"longitude"`
	Daily       []ForecastDay       `json:"daily"`
	Hourly      []HourlyObservation `json:"hourly"`
	RetrievedAt time.Time           `json:"retrieved_at"`
	Offline     bool                `json:"is_offline_data"`
}

// SuitabilityWindow is a single scored calendar day. Recomputed per query,
// never persisted.
type SuitabilityWindow struct {
	Date          time.Time `json:"date"`
	WeatherScore  float64   `json:"weather_score"`
	Precipitation float64   `json:"precipitation"`
	TempMax       float64   `json:"temperature_max"`
	TempMin       float64   `json:"temperature_min"`
	IsSuitable    bool      `json:"is_suitable"`
}

// SuitabilityReport is the advisory result of a single-day suitability check
type SuitabilityReport struct {
	IsSuitable bool     `json:"is_suitable"`
	Reasons    []string `json:"reasons"`
	Risks      []string `json:"risks"`
}

// DataUnavailableError reports that neither the live provider nor the local
// cache could supply forecast data. Sources lists what was tried, in order.
type DataUnavailableError struct {
	Sources []string
	Cause   error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("weather data unavailable (tried: %s): %v", strings.Join(e.Sources, ", "), e.Cause)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Cause
}
