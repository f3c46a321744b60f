package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const openMeteoPayload = `{
	"latitude": 10.3,
	"longitude": 123.9,
	"hourly": {
		"time": ["2026-03-01T00:00", "2026-03-01T01:00"],
		"temperature_2m": [26.1, null],
		"relative_humidity_2m": [84, 86],
		"precipitation": [0.0, 0.4],
		"rain": [0.0, 0.4],
		"soil_moisture_0_1cm": [0.31, 0.33]
	},
	"daily": {
		"time": ["2026-03-01", "2026-03-02"],
		"weather_code": [3, 61],
		"temperature_2m_max": [31.2, 29.8],
		"temperature_2m_min": [24.5, 23.9],
		"precipitation_sum": [0.4, 12.6]
	}
}`

func TestOpenMeteoProviderFetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/forecast", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(openMeteoPayload))
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(OpenMeteoConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	forecast, err := provider.Fetch(context.Background(), 10.3, 123.9, 7)
	assert.NoError(t, err)

	assert.Contains(t, gotQuery, "latitude=10.3")
	assert.Contains(t, gotQuery, "forecast_days=7")

	assert.Len(t, forecast.Daily, 2)
	assert.Equal(t, "2026-03-01", forecast.Daily[0].Date.Format("2006-01-02"))
	assert.InDelta(t, 0.4, forecast.Daily[0].PrecipitationSum, 1e-9)
	assert.InDelta(t, 31.2, forecast.Daily[0].TempMax, 1e-9)
	assert.NotNil(t, forecast.Daily[1].WeatherCode)
	assert.Equal(t, 61, *forecast.Daily[1].WeatherCode)

	assert.Len(t, forecast.Hourly, 2)
	assert.NotNil(t, forecast.Hourly[0].Temperature)
	assert.InDelta(t, 26.1, *forecast.Hourly[0].Temperature, 1e-9)
	// Null sensor readings stay nil instead of becoming zero
	assert.Nil(t, forecast.Hourly[1].Temperature)
	assert.InDelta(t, 10.3, forecast.Hourly[0].Latitude, 1e-9)
	assert.False(t, forecast.Offline)
}

func TestOpenMeteoProviderFetchNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(OpenMeteoConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := provider.Fetch(context.Background(), 10.3, 123.9, 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestOpenMeteoProviderFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	provider := NewOpenMeteoProvider(OpenMeteoConfig{BaseURL: server.URL, Timeout: 5 * time.Second})

	_, err := provider.Fetch(context.Background(), 10.3, 123.9, 7)
	assert.Error(t, err)
}

func TestOpenMeteoProviderFetchUnreachable(t *testing.T) {
	provider := NewOpenMeteoProvider(OpenMeteoConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := provider.Fetch(context.Background(), 10.3, 123.9, 7)
	assert.Error(t, err)
}
