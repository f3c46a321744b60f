package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Provider fetches a normalized forecast for a location
type Provider interface {
	Fetch(ctx context.Context, latitude, longitude float64, days int) (*Forecast, error)
}

// OpenMeteoConfig configures the Open-Meteo forecast client
type OpenMeteoConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
}

// DefaultOpenMeteoConfig returns the default client configuration
func DefaultOpenMeteoConfig() OpenMeteoConfig {
	return OpenMeteoConfig{
		BaseURL: "https://api.open-meteo.com/v1",
		Timeout: 10 * time.Second,
	}
}

// OpenMeteoProvider fetches forecasts from the Open-Meteo API
type OpenMeteoProvider struct {
	config OpenMeteoConfig
	client *http.Client
}

// NewOpenMeteoProvider creates a new Open-Meteo forecast provider
func NewOpenMeteoProvider(config OpenMeteoConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// openMeteoResponse mirrors the column-oriented Open-Meteo payload
type openMeteoResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hourly    struct {
		Time             []string   `json:"time"`
		Temperature      []*float64 `json:"temperature_2m"`
		RelativeHumidity []*float64 `json:"relative_humidity_2m"`
		Precipitation    []*float64 `json:"precipitation"`
		Rain             []*float64 `json:"rain"`
		SoilMoisture     []*float64 `json:"soil_moisture_0_1cm"`
	} `json:"hourly"`
	Daily struct {
		Time             []string  `json:"time"`
		WeatherCode      []*int    `json:"weather_code"`
		TempMax          []float64 `json:"temperature_2m_max"`
		TempMin          []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch retrieves the forecast for a location. The request is bounded by the
// configured timeout and is never retried here; offline fallback is the
// caller's responsibility.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, latitude, longitude float64, days int) (*Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("hourly", "temperature_2m,relative_humidity_2m,precipitation,rain,soil_moisture_0_1cm")
	params.Set("daily", "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum")
	params.Set("forecast_days", strconv.Itoa(days))
	params.Set("timezone", "auto")

	reqURL := fmt.Sprintf("%s/forecast?%s", p.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forecast request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read forecast response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("forecast provider returned status %d", resp.StatusCode)
	}

	var raw openMeteoResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}

	return p.normalize(&raw, latitude, longitude), nil
}

// normalize converts the column-oriented payload into row-oriented records
func (p *OpenMeteoProvider) normalize(raw *openMeteoResponse, latitude, longitude float64) *Forecast {
	forecast := &Forecast{
		Latitude:    raw.Latitude,
		Longitude:   raw.Longitude,
		RetrievedAt: time.Now().UTC(),
	}

	for i, ts := range raw.Daily.Time {
		date, err := time.Parse("2006-01-02", ts)
		if err != nil {
			continue
		}
		day := ForecastDay{Date: date}
		if i < len(raw.Daily.PrecipitationSum) {
			day.PrecipitationSum = raw.Daily.PrecipitationSum[i]
		}
		if i < len(raw.Daily.TempMax) {
			day.TempMax = raw.Daily.TempMax[i]
		}
		if i < len(raw.Daily.TempMin) {
			day.TempMin = raw.Daily.TempMin[i]
		}
		if i < len(raw.Daily.WeatherCode) {
			day.WeatherCode = raw.Daily.WeatherCode[i]
		}
		forecast.Daily = append(forecast.Daily, day)
	}

	for i, ts := range raw.Hourly.Time {
		t, err := time.Parse("2006-01-02T15:04", ts)
		if err != nil {
			continue
		}
		obs := HourlyObservation{
			Time:      t,
			Latitude:  latitude,
			Longitude: longitude,
		}
		if i < len(raw.Hourly.Temperature) {
			obs.Temperature = raw.Hourly.Temperature[i]
		}
		if i < len(raw.Hourly.RelativeHumidity) {
			obs.RelativeHumidity = raw.Hourly.RelativeHumidity[i]
		}
		if i < len(raw.Hourly.Precipitation) {
			obs.Precipitation = raw.Hourly.Precipitation[i]
		}
		if i < len(raw.Hourly.Rain) {
			obs.Rain = raw.Hourly.Rain[i]
		}
		if i < len(raw.Hourly.SoilMoisture) {
			obs.SoilMoisture = raw.Hourly.SoilMoisture[i]
		}
		forecast.Hourly = append(forecast.Hourly, obs)
	}

	return forecast
}
